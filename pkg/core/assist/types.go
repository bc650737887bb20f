package assist

// 请求结构由 web 层构造；validate tag 即各功能的输入契约
type (
	DefectRequest struct {
		PhotoDataURI string `json:"photoDataUri" validate:"required,imageuri"`
		Description  string `json:"description" validate:"omitempty,max=1000"`
	}

	InteriorRequest struct {
		RoomPhotoURI    string `json:"roomPhotoUri" validate:"required,imageuri"`
		StylePreference string `json:"stylePreference" validate:"omitempty,max=200"`
	}

	MedicalRequest struct {
		Concern string `json:"concern" validate:"required,min=10"`
	}

	VideoAdRequest struct {
		Prompt       string `json:"prompt" validate:"required,min=10,max=1000"`
		PhotoDataURI string `json:"photoDataUri" validate:"omitempty,imageuri"`
	}

	PromoPosterRequest struct {
		WorkerPhotoURI string `json:"workerPhotoUri" validate:"required,imageuri"`
		WorkerName     string `json:"workerName" validate:"required,min=2,max=80"`
		Trade          string `json:"trade" validate:"omitempty,max=60"`
	}

	SalePosterRequest struct {
		ItemName     string `json:"itemName" validate:"required,min=2,max=120"`
		SellerName   string `json:"sellerName" validate:"required,min=2,max=80"`
		Price        string `json:"price" validate:"omitempty,max=40"`
		ItemPhotoURI string `json:"itemPhotoUri" validate:"omitempty,imageuri"`
	}

	LegalRequest struct {
		DocumentDataURI string `json:"documentDataUri" validate:"required,docuri"`
		Question        string `json:"question" validate:"omitempty,max=1000"`
	}
)

// 外部流程的结果
type (
	DefectReport struct {
		Defects          []string `json:"defects"`
		Severity         string   `json:"severity,omitempty"`
		RecommendedTrade string   `json:"recommendedTrade,omitempty"`
		Summary          string   `json:"summary,omitempty"`
	}

	InteriorSuggestions struct {
		StyleSummary string   `json:"styleSummary"`
		Suggestions  []string `json:"suggestions"`
		ColorPalette []string `json:"colorPalette,omitempty"`
	}

	MedicalAdvice struct {
		Advice     string `json:"advice"`
		Urgency    string `json:"urgency,omitempty"`
		Disclaimer string `json:"disclaimer,omitempty"`
	}

	VideoAd struct {
		VideoDataURI string `json:"videoDataUri"`
	}

	Poster struct {
		PosterDataURI string `json:"posterDataUri"`
	}

	LegalAnalysis struct {
		Summary    string   `json:"summary"`
		KeyClauses []string `json:"keyClauses,omitempty"`
		Risks      []string `json:"risks,omitempty"`
	}
)

package gemini

import "google.golang.org/genai"

func str() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func strList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: str()}
}

var (
	defectSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"defects":          strList(),
			"severity":         {Type: genai.TypeString, Enum: []string{"low", "medium", "high"}},
			"recommendedTrade": str(),
			"summary":          str(),
		},
		Required: []string{"defects"},
	}

	interiorSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"styleSummary": str(),
			"suggestions":  strList(),
			"colorPalette": strList(),
		},
		Required: []string{"styleSummary", "suggestions"},
	}

	medicalSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"advice":     str(),
			"urgency":    {Type: genai.TypeString, Enum: []string{"self-care", "see-a-professional", "emergency"}},
			"disclaimer": str(),
		},
		Required: []string{"advice"},
	}

	legalSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":    str(),
			"keyClauses": strList(),
			"risks":      strList(),
		},
		Required: []string{"summary"},
	}
)

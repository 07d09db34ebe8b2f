package ai

import "google.golang.org/genai"

// geminiAnalysisSchema constrains the batch photo-analysis response: an
// array with one object per photo, fields mirroring photo.Analysis plus
// the filename echo.
func geminiAnalysisSchema() *genai.Schema {
	landmark := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category": {
				Type: genai.TypeString,
				Enum: []string{"building", "pole", "sign", "fence", "wall", "tree", "road_edge"},
			},
			"x":           {Type: genai.TypeNumber, Description: "center x on a 0-100 grid"},
			"y":           {Type: genai.TypeNumber, Description: "center y on a 0-100 grid"},
			"width":       {Type: genai.TypeNumber},
			"height":      {Type: genai.TypeNumber},
			"description": {Type: genai.TypeString},
			"confidence":  {Type: genai.TypeNumber},
		},
		Required: []string{"category", "x", "y", "width", "height"},
	}

	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"file":           {Type: genai.TypeString, Description: "filename echoed from the FILE marker"},
				"work_type":      {Type: genai.TypeString},
				"variety":        {Type: genai.TypeString},
				"detail":         {Type: genai.TypeString},
				"station":        {Type: genai.TypeString},
				"remark":         {Type: genai.TypeString},
				"description":    {Type: genai.TypeString},
				"has_blackboard": {Type: genai.TypeBoolean},
				"raw_text":       {Type: genai.TypeString},
				"viewpoint":      {Type: genai.TypeString},
				"ground_condition": {
					Type: genai.TypeString,
					Enum: []string{"unpaved", "under_construction", "paved"},
				},
				"landmarks": {Type: genai.TypeArray, Items: landmark},
			},
			Required: []string{"file", "work_type", "ground_condition", "landmarks"},
		},
	}
}

// geminiStationSchema constrains a consensus-round station vote.
func geminiStationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"file":    {Type: genai.TypeString, Description: "filename echoed from the FILE marker"},
				"station": {Type: genai.TypeString},
			},
			Required: []string{"file", "station"},
		},
	}
}

package gemini

import "gemini_pipes/pkg/pipe"

// Models returns the static catalog of supported Gemini models. The list is
// purely descriptive; the host queries it to populate its model picker.
func Models() []pipe.ModelInfo {
	return []pipe.ModelInfo{
		{
			ID:             "gemini/gemini-2.5-flash-preview-05-20",
			Name:           "gemini-2.5-flash-preview-05-20",
			ContextLength:  1048576,
			SupportsVision: true,
			Description:    "Latest Gemini 2.5 preview model with enhanced capabilities",
		},
		{
			ID:             "gemini/gemini-2.0-flash-exp",
			Name:           "gemini-2.0-flash-exp",
			ContextLength:  1048576,
			SupportsVision: true,
			Description:    "Latest experimental version with enhanced capabilities",
		},
		{
			ID:             "gemini/gemini-2.0-flash-thinking-exp",
			Name:           "gemini-2.0-flash-thinking-exp",
			ContextLength:  1048576,
			SupportsVision: true,
			Description:    "Experimental model with enhanced reasoning capabilities",
		},
		{
			ID:             "gemini/gemini-1.5-flash",
			Name:           "gemini-1.5-flash",
			ContextLength:  1048576,
			SupportsVision: true,
			Description:    "Fast and versatile performance for diverse tasks",
		},
		{
			ID:             "gemini/gemini-1.5-flash-8b",
			Name:           "gemini-1.5-flash-8b",
			ContextLength:  1048576,
			SupportsVision: true,
			Description:    "8B parameter model for high volume tasks",
		},
		{
			ID:             "gemini/gemini-1.5-pro",
			Name:           "gemini-1.5-pro",
			ContextLength:  1048576,
			SupportsVision: true,
			Description:    "Complex reasoning tasks requiring more intelligence",
		},
	}
}

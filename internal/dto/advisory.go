package dto

// CropAdviceRequest asks the generative backend for crop guidance.
type CropAdviceRequest struct {
	CropName string `json:"crop_name" binding:"required,max=128"`
	Province string `json:"province" binding:"required,max=128"`
	Question string `json:"question" binding:"required,max=2000"`
}

// CropAdviceResponse is the advisory answer.
type CropAdviceResponse struct {
	Advice string `json:"advice"`
}

// DiseaseDetectRequest submits a plant image for classification.
type DiseaseDetectRequest struct {
	ImageURL string `json:"image_url" binding:"required,url"`
	CropName string `json:"crop_name,omitempty"`
}

// DiseaseDetectResponse is the classifier verdict.
type DiseaseDetectResponse struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Treatment  string  `json:"treatment,omitempty"`
}

// WeatherResponse is the public weather summary.
type WeatherResponse struct {
	Province string `json:"province"`
	Summary  string `json:"summary"`
}

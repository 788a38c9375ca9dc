package dto

type PublishStoryRequest struct {
	Headline string `json:"headline" validate:"required,max=300"`
	Detail   string `json:"detail" validate:"required"`
	Category string `json:"category" validate:"required,max=60"`
	Source   string `json:"source" validate:"required,max=120"`
	URL      string `json:"url" validate:"omitempty,url"`
	Image    string `json:"image" validate:"omitempty,url"`
}

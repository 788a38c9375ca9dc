package dto

type SubmitOpinionRequest struct {
	Headline    string `json:"headline" validate:"required,max=200"`
	SubHeadline string `json:"subHeadline" validate:"max=300"`
	Body        string `json:"body" validate:"required,min=50"`
	AuthorName  string `json:"authorName" validate:"required,max=120"`
	AuthorTitle string `json:"authorTitle" validate:"max=120"`
	AuthorEmail string `json:"authorEmail" validate:"omitempty,email"`
	Category    string `json:"category" validate:"max=60"`
}

type RejectOpinionRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type OpinionReviewResponse struct {
	Id          string  `json:"id"`
	Headline    string  `json:"headline"`
	SubHeadline string  `json:"subHeadline,omitempty"`
	Body        string  `json:"body"`
	AuthorName  string  `json:"authorName"`
	AuthorTitle string  `json:"authorTitle,omitempty"`
	AuthorEmail string  `json:"authorEmail,omitempty"`
	Category    string  `json:"category,omitempty"`
	Status      string  `json:"status"`
	SubmittedAt string  `json:"submittedAt"`
	PublishedAt *string `json:"publishedAt,omitempty"`
}

package request

// GenerateDraftRequest represents an assistant draft generation request.
// Answers carries the user's replies when resubmitting after a NEED_INFO
// response, in the same order as the questions.
type GenerateDraftRequest struct {
	Prompt  string   `json:"prompt" binding:"required,max=4000"`
	Answers []string `json:"answers,omitempty" binding:"omitempty,max=10,dive,max=1000"`
}

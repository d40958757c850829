package structs

// SaveScoreRequest reports one finished round. Score is a pointer so a zero score still passes "required".
type SaveScoreRequest struct {
	Game       string `json:"game" binding:"required"`
	Score      *int   `json:"score" binding:"required,min=0,max=1000"`
	Difficulty string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	RequestID  string `json:"requestId" binding:"omitempty,max=64"`
}

type AvatarRequest struct {
	Helmet *string `json:"helmet"`
	Suit   *string `json:"suit"`
	Pet    *string `json:"pet"`
}

type SettingsRequest struct {
	CalmMode         *bool    `json:"calmMode"`
	CelebrationStyle *string  `json:"celebrationStyle" binding:"omitempty,oneof=standard quiet none"`
	AnimationSpeed   *float64 `json:"animationSpeed" binding:"omitempty,min=0.25,max=3"`
}

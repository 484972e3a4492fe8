package model

type FavoriteRequestBody struct {
	Favorite bool `json:"favorite"`
}

type KeysRequestBody struct {
	Keys []int `json:"keys"`
}

type LoopRequestBody struct {
	Start *LoopBlock `json:"start"`
	End   *LoopBlock `json:"end"`
}

type PlayerSettingsRequestBody struct {
	Instrument *int     `json:"instrument,omitempty"`
	Role       string   `json:"role,omitempty"`
	Hands      string   `json:"hands,omitempty"`
	Speed      *float64 `json:"speed,omitempty"`
	Position   *int     `json:"position,omitempty"`
}

type PlayerStateResponse struct {
	SongID       string `json:"songId"`
	Position     int    `json:"position"`
	GroupID      int    `json:"groupId"`
	Playing      bool   `json:"playing"`
	RequiredKeys []int  `json:"requiredKeys"`
	PressedKeys  []int  `json:"pressedKeys"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

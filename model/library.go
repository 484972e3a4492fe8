package model

// Song describes one entry in the song library. Folder is never persisted,
// it is wherever the entry was found.
type Song struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Author   string `json:"author"`
	Folder   string `json:"-"`
	Favorite bool   `json:"favorite"`
}

package interview

// Turn is one question/answer exchange. Turns are append-only: once a
// turn enters the transcript it is never edited or removed.
type Turn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

package model

import "time"

// ChatMessage is an entry of the shared chat history. Messages are never mutated.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

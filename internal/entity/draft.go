package entity

import (
	"time"
)

const DefaultEmailSubject = "Candidate Introduction"

// Contact is the outreach shape of an active client.
type Contact struct {
	Name    string `json:"name" mapstructure:"name"`
	Email   string `json:"email" mapstructure:"email"`
	Company string `json:"company" mapstructure:"company"`
}

func ContactsFrom(clients []*ListedClient) []Contact {
	contacts := make([]Contact, 0, len(clients))
	for _, c := range clients {
		if !c.IsActive {
			continue
		}
		contacts = append(contacts, Contact{Name: c.Name, Email: c.Email, Company: c.CompanyName})
	}
	return contacts
}

// Draft is the canonical email produced by the automation workflow.
type Draft struct {
	Subject  string    `json:"emailSubject"`
	Body     string    `json:"emailBody"`
	Contacts []Contact `json:"clientList"`
}

type ChatTurn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// DraftSession holds a Draft between generation and finalize. It is never
// written to the database.
type DraftSession struct {
	ID            string     `json:"id"`
	UserID        string     `json:"-"`
	CandidateID   string     `json:"candidate_id"`
	CandidateName string     `json:"candidate_name"`
	Subject       string     `json:"subject"`
	HTML          string     `json:"html"`
	Contacts      []Contact  `json:"contacts"`
	Transcript    []ChatTurn `json:"transcript"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
}

type DraftStoreInterface interface {
	Save(s *DraftSession) *DraftSession
	Get(userID, id string) (*DraftSession, error)
	Update(userID, id string, fn func(*DraftSession)) (*DraftSession, error)
	Delete(userID, id string)
}

package usecase

import "github.com/xavierca1/recruitica/internal/entity"

type CreateClientListInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AddClientInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	ListID  string `json:"-"`
}

type AddClientOutput struct {
	Client        *entity.Client          `json:"client"`
	Entry         *entity.ClientListEntry `json:"entry"`
	ClientCreated bool                    `json:"client_created"`
}

type BatchAttachInput struct {
	ClientIDs []string `json:"client_ids"`
}

type ToggleOutput struct {
	ClientID string `json:"client_id"`
	IsActive bool   `json:"is_active"`
}

const (
	StateNoListsYet = "NoListsYet"
	StateEditing    = "Editing"
	StateSubmitted  = "Submitted"
)

type IntakeState struct {
	State string               `json:"state"`
	Lists []*entity.ClientList `json:"lists"`
}

type UploadedFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

type SubmitCandidateInput struct {
	Name   string
	ListID string
	File   *UploadedFile
}

type NextStep struct {
	Action      string `json:"action"`
	CandidateID string `json:"candidate_id,omitempty"`
	ListID      string `json:"list_id,omitempty"`
}

type SubmitCandidateOutput struct {
	State           string            `json:"state"`
	Candidate       *entity.Candidate `json:"candidate"`
	NextStep        NextStep          `json:"next_step"`
	RedirectAfterMS int64             `json:"redirect_after_ms"`
}

type TuneInput struct {
	Model string `json:"model"`
	Body  string `json:"body"`
}

type InstructInput struct {
	Model       string `json:"model"`
	Instruction string `json:"instruction"`
	HTML        string `json:"html"`
}

type FinalizeInput struct {
	Subject  string           `json:"subject"`
	HTML     string           `json:"html"`
	Contacts []entity.Contact `json:"contacts"`
}

type FinalizeOutput struct {
	Delivered bool         `json:"delivered"`
	Mode      string       `json:"mode"`
	Draft     entity.Draft `json:"draft"`
	NextStep  NextStep     `json:"next_step"`
}

type IntroInput struct {
	Model       string `json:"model"`
	ClientName  string `json:"client_name"`
	YourName    string `json:"your_name"`
	YourCompany string `json:"your_company"`
}

type ExtractOutput struct {
	Text     string `json:"text"`
	FileType string `json:"fileType"`
}

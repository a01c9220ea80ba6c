package usecase

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/recruitica/internal/entity"
	"github.com/xavierca1/recruitica/internal/infra/htmlutil"
	"github.com/xavierca1/recruitica/internal/infra/integration/llm"
)

//go:embed templates/intro.html
var introTemplate string

const introPrompt = `You are an assistant that writes recruitment emails.
Fill in the HTML template with the candidate data you are given.
Keep the exact structure of the template and only replace the {{placeholder}} variables with values from the data.
Keep a conditional section ({{#if name}}...{{/if}}) only when its data is available, and drop the markers.
The candidate notes are raw text extracted from their CV; pick the details for each placeholder from them.
Keep the email professional, clear and engaging.`

type IntroGeneratorUseCase struct {
	Candidates entity.CandidateRepositoryInterface
	Contacts   ContactSource
	Extractor  TextExtractor
	AI         llm.Completer
	Drafts     entity.DraftStoreInterface
	Logger     *zap.Logger
}

func NewIntroGeneratorUseCase(
	candidates entity.CandidateRepositoryInterface,
	contacts ContactSource,
	extractor TextExtractor,
	ai llm.Completer,
	drafts entity.DraftStoreInterface,
	logger *zap.Logger,
) *IntroGeneratorUseCase {
	return &IntroGeneratorUseCase{
		Candidates: candidates,
		Contacts:   contacts,
		Extractor:  extractor,
		AI:         ai,
		Drafts:     drafts,
		Logger:     logger,
	}
}

type introData struct {
	CandidateName string `json:"candidate_name"`
	ClientName    string `json:"client_name"`
	ClientCompany string `json:"client_company,omitempty"`
	YourName      string `json:"your_name"`
	YourCompany   string `json:"your_company_name"`
	Notes         string `json:"candidate_notes"`
}

// Generate fills the built-in introduction template for a candidate and keeps
// the result as a draft session addressed to the list's active contacts.
func (uc *IntroGeneratorUseCase) Generate(ctx context.Context, userID, candidateID string, in IntroInput) (*entity.DraftSession, error) {
	var errs []ValidationError
	if strings.TrimSpace(in.Model) == "" {
		errs = append(errs, ValidationError{"model", "is required"})
	}
	errs = minLength(errs, "your_name", in.YourName, 2)
	errs = minLength(errs, "your_company", in.YourCompany, 2)
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	candidate, err := uc.Candidates.FindByID(ctx, userID, candidateID)
	if err != nil {
		return nil, storeError(err)
	}

	contacts, err := uc.Contacts.ActiveContacts(ctx, userID, candidate.ClientListID)
	if err != nil {
		return nil, err
	}

	data := introData{
		CandidateName: candidate.CandidateName,
		ClientName:    strings.TrimSpace(in.ClientName),
		YourName:      strings.TrimSpace(in.YourName),
		YourCompany:   strings.TrimSpace(in.YourCompany),
		Notes:         uc.notes(ctx, candidate),
	}
	if data.ClientName == "" && len(contacts) == 1 {
		data.ClientName = contacts[0].Name
		data.ClientCompany = contacts[0].Company
	}
	if data.ClientName == "" {
		data.ClientName = "there"
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode intro data: %w", err)
	}

	resp, err := uc.AI.Complete(ctx, llm.ChatRequest{
		Model: in.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: introPrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf(
				"Fill in this HTML template with the candidate data.\n\nData:\n%s\n\nTemplate:\n\n%s\n\nReturn only the complete filled HTML.",
				payload, introTemplate,
			)},
		},
		Temperature: llm.Float(instructTemperature),
		MaxTokens:   llm.Int(instructMaxTokens),
	})
	if err != nil {
		uc.Logger.Error("intro generation failed", zap.String("candidate_id", candidateID), zap.Error(err))
		return nil, aiError(err)
	}
	html, err := resp.Content()
	if err != nil {
		return nil, aiError(err)
	}
	html = strings.TrimSpace(html)
	if html == "" {
		return nil, &TechnicalError{Code: CodeAIProxyError, Message: "AI returned empty response"}
	}

	subject := htmlutil.Title(html)
	if subject == "" {
		subject = entity.DefaultEmailSubject
	}

	return uc.Drafts.Save(&entity.DraftSession{
		UserID:        userID,
		CandidateID:   candidate.ID,
		CandidateName: candidate.CandidateName,
		Subject:       subject,
		HTML:          html,
		Contacts:      contacts,
	}), nil
}

// notes is best effort: a candidate without a readable document still gets
// an introduction.
func (uc *IntroGeneratorUseCase) notes(ctx context.Context, c *entity.Candidate) string {
	if c.KeynotesURL == nil || uc.Extractor == nil {
		return ""
	}
	out, err := uc.Extractor.Extract(ctx, *c.KeynotesURL)
	if err != nil {
		uc.Logger.Warn("keynotes extraction failed",
			zap.String("candidate_id", c.ID),
			zap.Error(err),
		)
		return ""
	}
	return out.Text
}

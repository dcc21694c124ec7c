package prompt

import (
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Snatch/internal/record"
	"github.com/hbomb79/Snatch/pkg/logger"
)

var log = logger.Get("PromptServ")

// Prompt is a small persisted text snippet a client can save and
// recall later.
type Prompt struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (prompt Prompt) Identifier() uuid.UUID { return prompt.Id }
func (prompt Prompt) Created() time.Time    { return prompt.CreatedAt }

// Service owns the prompt collection. It's a thin layer over the
// record store; prompts carry no sidecar files.
type Service struct {
	records record.Store[Prompt]
}

func NewService(records record.Store[Prompt]) *Service {
	return &Service{records: records}
}

func (service *Service) List() ([]Prompt, error) {
	return service.records.List()
}

func (service *Service) Create(name string, text string) (Prompt, error) {
	prompt := Prompt{
		Id:        uuid.New(),
		Name:      name,
		Text:      text,
		CreatedAt: time.Now(),
	}

	if err := service.records.Create(prompt); err != nil {
		return Prompt{}, err
	}

	log.Emit(logger.NEW, "Created prompt %s (%s)\n", prompt.Id, prompt.Name)
	return prompt, nil
}

func (service *Service) Delete(id uuid.UUID) error {
	return service.records.Delete(id)
}

package services

import (
	"github.com/esign-lab/esign-server/internal/models"
)

type HookService interface {
	AddHook(hook ContactHook) error
	OnContactCreated(actor *models.User, contact *models.Contact) error
}

type hookService struct {
	hooks []ContactHook
}

func NewHookService() HookService {
	return &hookService{
		hooks: []ContactHook{},
	}
}

func (h *hookService) AddHook(hook ContactHook) error {
	h.hooks = append(h.hooks, hook)
	return nil
}

func (h *hookService) OnContactCreated(actor *models.User, contact *models.Contact) error {
	for _, hook := range h.hooks {
		if err := hook.OnContactCreated(actor, contact); err != nil {
			return err
		}
	}
	return nil
}

package services

import (
	"context"
	"strings"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/store"
	"github.com/diewo77/go-crm/validation"
	"go.uber.org/zap"
)

// ClientInput is the editable part of a client record.
type ClientInput struct {
	Name    string              `json:"name"`
	Email   string              `json:"email"`
	Phone   string              `json:"phone"`
	Address models.Address      `json:"address"`
	Status  models.ClientStatus `json:"status"`
	Notes   string              `json:"notes"`
}

func (in *ClientInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Status == "" {
		in.Status = models.ClientStatusLead
	}
}

func (in ClientInput) validate() error {
	v := validation.Violations{}
	validation.MinLen("name", in.Name, 2, v)
	validation.Email("email", in.Email, v)
	validation.MinLen("phone", in.Phone, 10, v)
	validation.MinLen("address.street", in.Address.Street, 2, v)
	validation.MinLen("address.city", in.Address.City, 2, v)
	validation.MinLen("address.state", in.Address.State, 2, v)
	validation.MinLen("address.zip", in.Address.Zip, 5, v)
	validation.OneOf("status", string(in.Status), names(models.ClientStatuses), v)
	return invalid(v)
}

func (in ClientInput) apply(c *models.Client) {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.Address = in.Address
	c.Status = in.Status
	c.Notes = in.Notes
}

type ClientService struct {
	store store.ClientStore
	log   *zap.Logger
}

func NewClientService(s store.ClientStore, log *zap.Logger) *ClientService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ClientService{store: s, log: log}
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := &models.Client{}
	in.apply(c)
	if err := s.store.CreateClient(ctx, c); err != nil {
		return nil, storeErr(err, "client", c.Name)
	}
	s.log.Info("client created", zap.String("client_id", c.ID))
	return c, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*models.Client, error) {
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, storeErr(err, "client", id)
	}
	return c, nil
}

// List returns clients, newest first.
func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	clients, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, storeErr(err, "clients", "")
	}
	return clients, nil
}

// Update replaces the editable fields of the client.
func (s *ClientService) Update(ctx context.Context, id string, in ClientInput) (*models.Client, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := s.store.GetClient(ctx, id)
	if err != nil {
		return nil, storeErr(err, "client", id)
	}
	in.apply(c)
	if err := s.store.UpdateClient(ctx, c); err != nil {
		return nil, storeErr(err, "client", id)
	}
	s.log.Info("client updated", zap.String("client_id", id))
	return c, nil
}

// Delete removes the client. Existing documents keep their client id and
// are listed with UnknownClient afterwards.
func (s *ClientService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteClient(ctx, id); err != nil {
		return storeErr(err, "client", id)
	}
	s.log.Info("client deleted", zap.String("client_id", id))
	return nil
}

package partner

import (
	"context"
	"fmt"

	"github.com/invledger/backend/internal/application/validation"
	"github.com/invledger/backend/internal/domain/partner"
	"github.com/invledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ContactService handles business partner operations
type ContactService struct {
	contactRepo partner.ContactRepository
	logger      *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo partner.ContactRepository, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{contactRepo: contactRepo, logger: logger.Named("contact_service")}
}

// Create creates a new contact
func (s *ContactService) Create(ctx context.Context, req CreateContactRequest) (*ContactResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	contact, err := partner.NewContact(req.ICO, req.Modifier, req.CompanyName)
	if err != nil {
		return nil, err
	}
	if req.PriceGroup != 0 {
		if err := contact.SetPriceGroup(req.PriceGroup); err != nil {
			return nil, err
		}
	}
	contact.Address = partner.Address{
		Street:     req.Street,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}
	contact.DIC = validation.NonEmpty(req.DIC)
	contact.Phone = validation.NonEmpty(req.Phone)
	contact.BankAccount = validation.NonEmpty(req.BankAccount)
	contact.Note = validation.NonEmpty(req.Note)
	if err := setEmail(contact, req.Email); err != nil {
		return nil, err
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		s.logger.Warn("contact create rejected", zap.String("ico", contact.ICO), zap.Int("modifier", contact.Modifier), zap.Error(err))
		return nil, fmt.Errorf("create contact %s/%d: %w", contact.ICO, contact.Modifier, err)
	}
	s.logger.Debug("contact created", zap.String("ico", contact.ICO), zap.Int("modifier", contact.Modifier))

	resp := ToContactResponse(contact)
	return &resp, nil
}

// Get returns a contact by ICO and modifier
func (s *ContactService) Get(ctx context.Context, key partner.ContactKey) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := ToContactResponse(contact)
	return &resp, nil
}

// ListByICO returns every contact registered under one ICO, ordered by modifier
func (s *ContactService) ListByICO(ctx context.Context, ico string) ([]ContactResponse, error) {
	contacts, err := s.contactRepo.FindByICO(ctx, ico)
	if err != nil {
		return nil, err
	}
	return ToContactResponses(contacts), nil
}

// List returns contacts matching the filter
func (s *ContactService) List(ctx context.Context, f ContactListFilter) ([]ContactResponse, error) {
	if err := validation.Struct(f); err != nil {
		return nil, err
	}
	filter := shared.DefaultFilter()
	filter.Search = f.Search
	filter.OrderBy = f.OrderBy
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	contacts, err := s.contactRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ToContactResponses(contacts), nil
}

// Update applies the present fields of req to an existing contact
func (s *ContactService) Update(ctx context.Context, key partner.ContactKey, req UpdateContactRequest) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if name, ok := req.CompanyName.Get(); ok {
		if err := contact.Rename(name); err != nil {
			return nil, err
		}
	}
	if group, ok := req.PriceGroup.Get(); ok {
		if err := contact.SetPriceGroup(group); err != nil {
			return nil, err
		}
	}
	contact.Address.Street = req.Street.OrElse(contact.Address.Street)
	contact.Address.City = req.City.OrElse(contact.Address.City)
	contact.Address.PostalCode = req.PostalCode.OrElse(contact.Address.PostalCode)
	contact.Address.Country = req.Country.OrElse(contact.Address.Country)
	if req.DIC.IsPresent() {
		contact.DIC = validation.NonEmpty(req.DIC)
	}
	if req.Phone.IsPresent() {
		contact.Phone = validation.NonEmpty(req.Phone)
	}
	if req.BankAccount.IsPresent() {
		contact.BankAccount = validation.NonEmpty(req.BankAccount)
	}
	if req.Note.IsPresent() {
		contact.Note = validation.NonEmpty(req.Note)
	}
	if req.Email.IsPresent() {
		if err := setEmail(contact, req.Email); err != nil {
			return nil, err
		}
	}

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("update contact %s/%d: %w", key.ICO, key.Modifier, err)
	}
	s.logger.Debug("contact updated", zap.String("ico", key.ICO), zap.Int("modifier", key.Modifier))

	resp := ToContactResponse(contact)
	return &resp, nil
}

// Delete removes a contact. Issued invoices keep their counterparty snapshot.
func (s *ContactService) Delete(ctx context.Context, key partner.ContactKey) error {
	if err := s.contactRepo.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete contact %s/%d: %w", key.ICO, key.Modifier, err)
	}
	s.logger.Debug("contact deleted", zap.String("ico", key.ICO), zap.Int("modifier", key.Modifier))
	return nil
}

func setEmail(c *partner.Contact, email shared.Optional[string]) error {
	email = validation.NonEmpty(email)
	if v, ok := email.Get(); ok {
		if err := validation.Var("email", v, "email"); err != nil {
			return err
		}
	}
	c.Email = email
	return nil
}

package trade

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/invledger/backend/internal/application/validation"
	"github.com/invledger/backend/internal/domain/catalog"
	"github.com/invledger/backend/internal/domain/inventory"
	"github.com/invledger/backend/internal/domain/partner"
	"github.com/invledger/backend/internal/domain/shared"
	"github.com/invledger/backend/internal/domain/shared/valueobject"
	"github.com/invledger/backend/internal/domain/trade"
	"github.com/invledger/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// ResetPointAdvisor decides whether a new line becomes the cost baseline of its item
type ResetPointAdvisor interface {
	ShouldSetResetPoint(ctx context.Context, ean string, invoiceType trade.InvoiceType, newAmount decimal.Decimal) (bool, error)
}

// InvoiceServiceConfig holds presentation settings
type InvoiceServiceConfig struct {
	Currency valueobject.Currency
	Locale   language.Tag
}

// InvoiceService handles invoices and their movement lines
type InvoiceService struct {
	invoiceRepo  trade.InvoiceRepository
	movementRepo inventory.StockMovementRepository
	itemRepo     catalog.ItemRepository
	contactRepo  partner.ContactRepository
	txScope      TransactionScope
	advisor      ResetPointAdvisor
	metrics      *telemetry.LedgerMetrics
	cfg          InvoiceServiceConfig
	logger       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService. metrics may be nil.
func NewInvoiceService(
	invoiceRepo trade.InvoiceRepository,
	movementRepo inventory.StockMovementRepository,
	itemRepo catalog.ItemRepository,
	contactRepo partner.ContactRepository,
	txScope TransactionScope,
	advisor ResetPointAdvisor,
	metrics *telemetry.LedgerMetrics,
	cfg InvoiceServiceConfig,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Currency == "" {
		cfg.Currency = valueobject.DefaultCurrency
	}
	if cfg.Locale == language.Und {
		cfg.Locale = language.Czech
	}
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		movementRepo: movementRepo,
		itemRepo:     itemRepo,
		contactRepo:  contactRepo,
		txScope:      txScope,
		advisor:      advisor,
		metrics:      metrics,
		cfg:          cfg,
		logger:       logger.Named("invoice_service"),
	}
}

// plannedLine is a validated line whose reset flag has already been decided
type plannedLine struct {
	input      LineInput
	amount     decimal.Decimal
	price      shared.Optional[decimal.Decimal]
	resetPoint bool
}

// CreateInvoice creates the header and all lines in one transaction.
// Any failing statement, including a constraint violation on a line, rolls back
// the header and every line written before it.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	invoiceType := trade.InvoiceType(req.Type)

	// placeholder number so the header validates before a number is allocated
	number := req.Number.OrElse("0")
	inv, err := trade.NewInvoice(req.Prefix, number, invoiceType, req.DateIssue)
	if err != nil {
		return nil, err
	}
	if err := s.applyHeader(inv, req); err != nil {
		return nil, err
	}

	priceGroup := 1
	if req.Contact != nil {
		contact, err := s.contactRepo.FindByKey(ctx, partner.ContactKey{ICO: req.Contact.ICO, Modifier: req.Contact.Modifier})
		if err != nil {
			return nil, fmt.Errorf("counterparty %s/%d: %w", req.Contact.ICO, req.Contact.Modifier, err)
		}
		inv.Counterparty = snapshot(contact)
		priceGroup = contact.PriceGroup
	}

	planned, err := s.planLines(ctx, invoiceType, req.Lines)
	if err != nil {
		return nil, err
	}

	var movements []inventory.StockMovement
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if !req.Number.IsPresent() {
			existing, err := repos.Invoices().NumbersByType(ctx, invoiceType, shared.Some(inv.Prefix))
			if err != nil {
				return err
			}
			inv.Number = strconv.FormatInt(trade.NextNumber(existing), 10)
		}
		if err := repos.Invoices().Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice %s: %w", inv.InvoiceKey, err)
		}
		for _, pl := range planned {
			m, err := s.buildMovement(ctx, repos.Items(), inv, pl, priceGroup)
			if err != nil {
				return err
			}
			if err := repos.Movements().Create(ctx, m); err != nil {
				return fmt.Errorf("add line %s to invoice %s: %w", m.ItemEAN, inv.InvoiceKey, err)
			}
			movements = append(movements, *m)
		}
		return nil
	})
	if err != nil {
		s.recordFailure(ctx, err)
		s.logger.Warn("invoice create rolled back",
			zap.String("invoice", inv.InvoiceKey.String()),
			zap.Int("lines", len(planned)),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.InvoiceCreated(ctx, int(invoiceType))
	for _, m := range movements {
		s.metrics.MovementRecorded(ctx, int(invoiceType), m.ResetPoint)
	}
	s.logger.Info("invoice created",
		zap.String("invoice", inv.InvoiceKey.String()),
		zap.String("type", invoiceType.String()),
		zap.Int("lines", len(movements)),
	)

	resp := ToInvoiceResponse(inv)
	resp.Lines = ToLineResponses(movements)
	totals := s.totals(movements)
	resp.Totals = &totals
	return &resp, nil
}

// Get returns an invoice with its lines and totals
func (s *InvoiceService) Get(ctx context.Context, key trade.InvoiceKey) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindByInvoice(ctx, key)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	resp.Lines = ToLineResponses(movements)
	totals := s.totals(movements)
	resp.Totals = &totals
	return &resp, nil
}

// List returns invoice headers matching the filter
func (s *InvoiceService) List(ctx context.Context, f InvoiceListFilter) ([]InvoiceResponse, error) {
	if err := validation.Struct(f); err != nil {
		return nil, err
	}
	filter := trade.InvoiceFilter{Filter: shared.DefaultFilter(), Prefix: f.Prefix}
	if t, ok := f.Type.Get(); ok {
		if !trade.InvoiceType(t).IsValid() {
			return nil, shared.NewInvalidInputError("type", "must be between 1 and 5")
		}
		filter.Type = shared.Some(trade.InvoiceType(t))
	}
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

	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, nil
}

// UpdateHeader applies the present fields of req. The type cannot change once
// the invoice has movement lines, since stock direction derives from it.
func (s *InvoiceService) UpdateHeader(ctx context.Context, key trade.InvoiceKey, req UpdateInvoiceHeaderRequest) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if t, ok := req.Type.Get(); ok && trade.InvoiceType(t) != inv.Type {
		hasLines, err := s.movementRepo.ExistsForInvoice(ctx, key)
		if err != nil {
			return nil, err
		}
		if err := inv.ChangeType(trade.InvoiceType(t), hasLines); err != nil {
			return nil, err
		}
	}

	switch {
	case req.ClearPaymentMethod:
		inv.PaymentMethod = shared.None[trade.PaymentMethod]()
	case req.PaymentMethod.IsPresent():
		pm, _ := req.PaymentMethod.Get()
		if err := inv.SetPaymentMethod(shared.Some(trade.PaymentMethod(pm))); err != nil {
			return nil, err
		}
	}

	if req.DateIssue.IsPresent() || req.DateTax.IsPresent() || req.DateDue.IsPresent() {
		issue := req.DateIssue.OrElse(inv.DateIssue)
		tax := inv.DateTax
		if req.DateTax.IsPresent() {
			tax = req.DateTax
		}
		due := inv.DateDue
		if req.DateDue.IsPresent() {
			due = req.DateDue
		}
		if err := inv.SetDates(issue, tax, due); err != nil {
			return nil, err
		}
	}
	if req.VariableSymbol.IsPresent() {
		inv.VariableSymbol = validation.NonEmpty(req.VariableSymbol)
	}
	if req.Note.IsPresent() {
		inv.Note = validation.NonEmpty(req.Note)
	}

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		s.recordFailure(ctx, err)
		return nil, fmt.Errorf("update invoice %s: %w", key, err)
	}
	s.logger.Debug("invoice header updated", zap.String("invoice", key.String()))

	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Delete removes an invoice together with its lines
func (s *InvoiceService) Delete(ctx context.Context, key trade.InvoiceKey) error {
	if err := s.invoiceRepo.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete invoice %s: %w", key, err)
	}
	s.logger.Info("invoice deleted", zap.String("invoice", key.String()))
	return nil
}

// AddLine records one movement line on an existing invoice
func (s *InvoiceService) AddLine(ctx context.Context, key trade.InvoiceKey, input LineInput) (*LineResponse, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	planned, err := s.planLines(ctx, inv.Type, []LineInput{input})
	if err != nil {
		return nil, err
	}

	priceGroup := 1
	if ico, ok := inv.Counterparty.ICO.Get(); ok {
		contact, err := s.contactRepo.FindByKey(ctx, partner.ContactKey{ICO: ico, Modifier: inv.Counterparty.Modifier.OrElse(0)})
		switch {
		case err == nil:
			priceGroup = contact.PriceGroup
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}

	m, err := s.buildMovement(ctx, s.itemRepo, inv, planned[0], priceGroup)
	if err != nil {
		return nil, err
	}
	if err := s.movementRepo.Create(ctx, m); err != nil {
		s.recordFailure(ctx, err)
		return nil, fmt.Errorf("add line %s to invoice %s: %w", m.ItemEAN, key, err)
	}
	s.metrics.MovementRecorded(ctx, int(inv.Type), m.ResetPoint)
	s.logger.Debug("line added",
		zap.String("invoice", key.String()),
		zap.String("ean", m.ItemEAN),
		zap.Bool("reset_point", m.ResetPoint),
	)

	resp := ToLineResponse(m)
	return &resp, nil
}

// UpdateLine changes amount, price or reset flag of an existing line
func (s *InvoiceService) UpdateLine(ctx context.Context, key inventory.MovementKey, req UpdateLineRequest) (*LineResponse, error) {
	m, err := s.movementRepo.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	amount, err := validation.OptionalDecimal("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	price, err := validation.OptionalDecimal("price_per_unit", req.PricePerUnit)
	if err != nil {
		return nil, err
	}
	if v, ok := amount.Get(); ok {
		m.Amount = v
	}
	if v, ok := price.Get(); ok {
		if err := m.SetPrice(v); err != nil {
			return nil, err
		}
	}
	m.ResetPoint = req.ResetPoint.OrElse(m.ResetPoint)

	if err := s.movementRepo.Update(ctx, m); err != nil {
		s.recordFailure(ctx, err)
		return nil, fmt.Errorf("update line %s: %w", key, err)
	}
	resp := ToLineResponse(m)
	return &resp, nil
}

// RemoveLine deletes one movement line
func (s *InvoiceService) RemoveLine(ctx context.Context, key inventory.MovementKey) error {
	if err := s.movementRepo.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove line %s: %w", key, err)
	}
	s.logger.Debug("line removed", zap.String("line", key.String()))
	return nil
}

// ListLines returns the lines of an invoice in creation order
func (s *InvoiceService) ListLines(ctx context.Context, key trade.InvoiceKey) ([]LineResponse, error) {
	if _, err := s.invoiceRepo.FindByKey(ctx, key); err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindByInvoice(ctx, key)
	if err != nil {
		return nil, err
	}
	return ToLineResponses(movements), nil
}

// Totals valuates the lines of an invoice
func (s *InvoiceService) Totals(ctx context.Context, key trade.InvoiceKey) (*TotalsResponse, error) {
	if _, err := s.invoiceRepo.FindByKey(ctx, key); err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindByInvoice(ctx, key)
	if err != nil {
		return nil, err
	}
	totals := s.totals(movements)
	return &totals, nil
}

// NextNumber returns the next free number for an invoice type across all prefixes
func (s *InvoiceService) NextNumber(ctx context.Context, invoiceType trade.InvoiceType) (int64, error) {
	return s.nextNumber(ctx, invoiceType, shared.None[string]())
}

// NextNumberForPrefix returns the next free number within one prefix series
func (s *InvoiceService) NextNumberForPrefix(ctx context.Context, invoiceType trade.InvoiceType, prefix string) (int64, error) {
	return s.nextNumber(ctx, invoiceType, shared.Some(prefix))
}

func (s *InvoiceService) nextNumber(ctx context.Context, invoiceType trade.InvoiceType, prefix shared.Optional[string]) (int64, error) {
	if !invoiceType.IsValid() {
		return 0, shared.NewInvalidInputError("type", "must be between 1 and 5")
	}
	existing, err := s.invoiceRepo.NumbersByType(ctx, invoiceType, prefix)
	if err != nil {
		return 0, err
	}
	return trade.NextNumber(existing), nil
}

func (s *InvoiceService) applyHeader(inv *trade.Invoice, req CreateInvoiceRequest) error {
	if pm, ok := req.PaymentMethod.Get(); ok {
		if err := inv.SetPaymentMethod(shared.Some(trade.PaymentMethod(pm))); err != nil {
			return err
		}
	}
	if err := inv.SetDates(req.DateIssue, req.DateTax, req.DateDue); err != nil {
		return err
	}
	inv.VariableSymbol = validation.NonEmpty(req.VariableSymbol)
	inv.Note = validation.NonEmpty(req.Note)
	return nil
}

// planLines parses amounts and prices and settles each reset flag. An explicit
// per-line flag wins over the configured policy.
func (s *InvoiceService) planLines(ctx context.Context, invoiceType trade.InvoiceType, inputs []LineInput) ([]plannedLine, error) {
	planned := make([]plannedLine, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for i, in := range inputs {
		if _, dup := seen[in.ItemEAN]; dup {
			return nil, shared.NewInvalidInputError(fmt.Sprintf("lines[%d].item_ean", i), "item appears twice on the invoice")
		}
		seen[in.ItemEAN] = struct{}{}

		amount, err := validation.Decimal(fmt.Sprintf("lines[%d].amount", i), in.Amount)
		if err != nil {
			return nil, err
		}
		price, err := validation.OptionalDecimal(fmt.Sprintf("lines[%d].price_per_unit", i), in.PricePerUnit)
		if err != nil {
			return nil, err
		}

		reset, explicit := in.ResetPoint.Get()
		if !explicit && s.advisor != nil {
			reset, err = s.advisor.ShouldSetResetPoint(ctx, in.ItemEAN, invoiceType, amount)
			if err != nil {
				return nil, fmt.Errorf("reset point for %s: %w", in.ItemEAN, err)
			}
		}
		planned = append(planned, plannedLine{input: in, amount: amount, price: price, resetPoint: reset})
	}
	return planned, nil
}

// buildMovement resolves VAT class and unit price for a planned line. The item
// is only read when the input leaves one of them open; an unknown item with both
// given is left to the foreign key.
func (s *InvoiceService) buildMovement(
	ctx context.Context,
	items catalog.ItemRepository,
	inv *trade.Invoice,
	pl plannedLine,
	priceGroup int,
) (*inventory.StockMovement, error) {
	rate, hasRate := pl.input.VATRate.Get()
	price, hasPrice := pl.price.Get()

	if !hasRate || !hasPrice {
		item, err := items.FindByEAN(ctx, pl.input.ItemEAN)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", pl.input.ItemEAN, err)
		}
		if !hasRate {
			rate = int(item.VATRate)
		}
		if !hasPrice {
			if inv.Type.StockSign() > 0 {
				return nil, shared.NewInvalidInputError("price_per_unit", "is required on purchase documents")
			}
			price = item.SalePrice(priceGroup)
		}
	}

	m, err := inventory.NewStockMovement(inv.InvoiceKey, pl.input.ItemEAN, pl.amount, price, valueobject.VATRate(rate))
	if err != nil {
		return nil, err
	}
	if pl.resetPoint {
		m.MarkResetPoint()
	}
	return m, nil
}

func (s *InvoiceService) totals(movements []inventory.StockMovement) TotalsResponse {
	t := trade.Valuate(inventory.InvoiceLines(movements))
	byRate := make([]RateTotalsResponse, len(t.ByRate))
	for i, r := range t.ByRate {
		byRate[i] = RateTotalsResponse{
			VATRate:      int(r.Rate),
			Base:         r.Base,
			VAT:          r.VAT,
			TotalWithVAT: r.TotalWithVAT,
		}
	}
	display := t.Display(s.cfg.Currency)
	return TotalsResponse{
		TotalWithoutVAT: t.TotalWithoutVAT,
		TotalVAT:        t.TotalVAT,
		TotalWithVAT:    t.TotalWithVAT,
		ByRate:          byRate,
		Display:         display,
		Formatted:       display.TotalWithVAT.Format(s.cfg.Locale),
	}
}

func (s *InvoiceService) recordFailure(ctx context.Context, err error) {
	var cv *shared.ConstraintViolationError
	if errors.As(err, &cv) {
		s.metrics.ConstraintViolation(ctx, string(cv.Kind))
	}
}

// snapshot freezes the contact fields onto an invoice
func snapshot(c *partner.Contact) trade.Counterparty {
	opt := func(s string) shared.Optional[string] {
		if s == "" {
			return shared.None[string]()
		}
		return shared.Some(s)
	}
	return trade.Counterparty{
		ICO:         shared.Some(c.ICO),
		Modifier:    shared.Some(c.Modifier),
		DIC:         c.DIC,
		CompanyName: shared.Some(c.CompanyName),
		Street:      opt(c.Address.Street),
		City:        opt(c.Address.City),
		PostalCode:  opt(c.Address.PostalCode),
		Country:     opt(c.Address.Country),
		Phone:       c.Phone,
		Email:       c.Email,
	}
}

package worker

// notification_worker.go
// Turns domain events (award, status change) into outgoing emails.
// For award notices it renders the PO form PDF first so the supplier
// receives the signed-ready document as an attachment.

import (
	"context"
	"encoding/json"
	"fmt"

	"procuretrack/internal/infra"
	"procuretrack/internal/model"
	"procuretrack/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationJobPayload is the job envelope sent to QueueNotification.
type NotificationJobPayload struct {
	Kind       string `json:"kind"` // award_notice | status_change
	AOQID      string `json:"aoq_id,omitempty"`
	POID       string `json:"po_id,omitempty"`
	SupplierID string `json:"supplier_id,omitempty"`
	PRID       string `json:"pr_id,omitempty"`
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status,omitempty"`
}

type NotificationWorker struct {
	poRepo         repository.PORepository
	prRepo         repository.PRRepository
	supplierRepo   repository.SupplierRepository
	userRepo       repository.UserRepository
	dispatcher     *Dispatcher
	agencyName     string
	pdfStoragePath string
}

func NewNotificationWorker(
	poRepo repository.PORepository,
	prRepo repository.PRRepository,
	supplierRepo repository.SupplierRepository,
	userRepo repository.UserRepository,
	dispatcher *Dispatcher,
	agencyName string,
	pdfStoragePath string,
) *NotificationWorker {
	return &NotificationWorker{
		poRepo:         poRepo,
		prRepo:         prRepo,
		supplierRepo:   supplierRepo,
		userRepo:       userRepo,
		dispatcher:     dispatcher,
		agencyName:     agencyName,
		pdfStoragePath: pdfStoragePath,
	}
}

func (w *NotificationWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotificationJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return
	}

	switch payload.Kind {
	case "award_notice":
		w.processAwardNotice(ctx, payload)
	case "status_change":
		w.processStatusChange(ctx, payload)
	default:
		log.Warn().Str("kind", payload.Kind).Msg("notification_worker: unknown kind")
	}
}

func (w *NotificationWorker) processAwardNotice(ctx context.Context, payload NotificationJobPayload) {
	poID, err := uuid.Parse(payload.POID)
	if err != nil {
		log.Error().Str("po_id", payload.POID).Msg("notification_worker: invalid po_id")
		return
	}
	po, err := w.poRepo.FindByID(ctx, poID)
	if err != nil {
		log.Error().Err(err).Str("po_id", payload.POID).Msg("notification_worker: PO not found")
		return
	}
	if po.Supplier == nil || po.Supplier.ContactEmail == "" {
		log.Warn().Str("po_id", payload.POID).Msg("notification_worker: supplier has no contact email — skipping")
		return
	}

	pdfPath, err := infra.GeneratePOPDF(po, w.agencyName, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("po_id", payload.POID).Msg("notification_worker: PO PDF generation failed")
		pdfPath = "" // send the notice without the attachment
	}

	number := "(pending)"
	if po.PONumber != nil {
		number = *po.PONumber
	}
	body := fmt.Sprintf(
		"Dear %s,\n\nWe are pleased to inform you that your quotation has been accepted.\nPurchase Order %s is attached.\n\n%s",
		po.Supplier.Name, number, w.agencyName,
	)

	err = w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: po.Supplier.ContactEmail,
		Subject: fmt.Sprintf("Notice of Award — %s", number),
		Body:    body,
		PDFPath: pdfPath,
	})
	if err != nil {
		log.Error().Err(err).Str("po_id", payload.POID).Msg("notification_worker: enqueue email failed")
	}
}

func (w *NotificationWorker) processStatusChange(ctx context.Context, payload NotificationJobPayload) {
	prID, err := uuid.Parse(payload.PRID)
	if err != nil {
		log.Error().Str("pr_id", payload.PRID).Msg("notification_worker: invalid pr_id")
		return
	}
	pr, err := w.prRepo.FindByID(ctx, prID)
	if err != nil {
		log.Error().Err(err).Str("pr_id", payload.PRID).Msg("notification_worker: PR not found")
		return
	}
	if pr.CreatedByID == nil {
		return
	}
	user, err := w.userRepo.FindByID(ctx, *pr.CreatedByID)
	if err != nil || user.Email == "" {
		return
	}

	number := "your purchase request"
	if pr.PRNumber != nil {
		number = "PR " + *pr.PRNumber
	}
	body := fmt.Sprintf(
		"Dear %s,\n\nThe status of %s has changed from %q to %q.\n\n%s",
		user.Name, number,
		model.StatusLabel(payload.FromStatus), model.StatusLabel(payload.ToStatus),
		w.agencyName,
	)

	err = w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: user.Email,
		Subject: fmt.Sprintf("Status update — %s", number),
		Body:    body,
	})
	if err != nil {
		log.Error().Err(err).Str("pr_id", payload.PRID).Msg("notification_worker: enqueue email failed")
	}
}

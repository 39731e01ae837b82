package postgres

import (
	"github.com/duespay/duespay/internal/domain"
)

// toDomainPayment: maps db model to domain entity
func toDomainPayment(m PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:             m.ID,
		Description:    m.Description,
		DueDate:        m.DueDate,
		Amount:         m.Amount,
		Currency:       m.Currency,
		PayerName:      m.PayerName,
		PayerEmail:     m.PayerEmail,
		Status:         domain.PaymentStatus(m.Status),
		CheckoutRef:    m.CheckoutRef,
		IdempotencyKey: m.IdempotencyKey,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// toPaymentModel: maps domain entity to db model
func toPaymentModel(p *domain.Payment) *PaymentModel {
	return &PaymentModel{
		ID:             p.ID,
		Description:    p.Description,
		DueDate:        p.DueDate,
		Amount:         p.Amount,
		Currency:       p.Currency,
		PayerName:      p.PayerName,
		PayerEmail:     p.PayerEmail,
		Status:         string(p.Status),
		CheckoutRef:    p.CheckoutRef,
		IdempotencyKey: p.IdempotencyKey,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toDomainHistory(m PaymentHistoryModel) *domain.PaymentHistory {
	return &domain.PaymentHistory{
		ID:        m.ID,
		PaymentID: m.PaymentID,
		OldStatus: domain.PaymentStatus(m.OldStatus),
		NewStatus: domain.PaymentStatus(m.NewStatus),
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
	}
}

func toDomainIdempotencyRecord(m IdempotencyRecordModel) *domain.IdempotencyRecord {
	return &domain.IdempotencyRecord{
		Key:             m.Key,
		RequestHash:     m.RequestHash,
		ResponsePayload: m.ResponsePayload,
		ExpiresAt:       m.ExpiresAt,
		CreatedAt:       m.CreatedAt,
	}
}

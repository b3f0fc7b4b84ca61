package mapping

import (
	"github.com/acctsys/voucherledger/internal/core/domain"
	"github.com/acctsys/voucherledger/internal/models"
)

// ToModelVoucherHeader converts a domain VoucherHeader to its model.
func ToModelVoucherHeader(d domain.VoucherHeader) models.VoucherHeader {
	return models.VoucherHeader{
		Kind:        models.VoucherKind(d.Kind),
		Number:      d.Number,
		Sequence:    d.Sequence,
		Year:        d.Year,
		Date:        d.Date,
		PayeeCode:   d.PayeeCode,
		Payee:       d.Payee,
		TotalAmount: d.TotalAmount,
		Description: d.Description,
		DueDate:     d.DueDate,
		CheckNumber: d.CheckNumber,
		Status:      models.VoucherStatus(d.Status),
		VoidReason:  d.VoidReason,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucherHeader converts a model VoucherHeader to its domain form.
func ToDomainVoucherHeader(m models.VoucherHeader) domain.VoucherHeader {
	return domain.VoucherHeader{
		Kind:        domain.VoucherKind(m.Kind),
		Number:      m.Number,
		Sequence:    m.Sequence,
		Year:        m.Year,
		Date:        m.Date,
		PayeeCode:   m.PayeeCode,
		Payee:       m.Payee,
		TotalAmount: m.TotalAmount,
		Description: m.Description,
		DueDate:     m.DueDate,
		CheckNumber: m.CheckNumber,
		Status:      domain.VoucherStatus(m.Status),
		VoidReason:  m.VoidReason,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntryLine converts a domain EntryLine to its model.
func ToModelEntryLine(d domain.EntryLine) models.EntryLine {
	return models.EntryLine{
		Kind:               models.VoucherKind(d.Kind),
		Number:             d.Number,
		Date:               d.Date,
		AccountCode:        d.AccountCode,
		AccountDescription: d.AccountDescription,
		Amount:             d.Amount,
		Side:               models.EntrySide(d.Side),
	}
}

// ToDomainEntryLine converts a model EntryLine to its domain form.
func ToDomainEntryLine(m models.EntryLine) domain.EntryLine {
	return domain.EntryLine{
		Kind:               domain.VoucherKind(m.Kind),
		Number:             m.Number,
		Date:               m.Date,
		AccountCode:        m.AccountCode,
		AccountDescription: m.AccountDescription,
		Amount:             m.Amount,
		Side:               domain.EntrySide(m.Side),
	}
}

// ToDomainEntryLineSlice converts a slice of model entry lines.
func ToDomainEntryLineSlice(ms []models.EntryLine) []domain.EntryLine {
	out := make([]domain.EntryLine, len(ms))
	for i, m := range ms {
		out[i] = ToDomainEntryLine(m)
	}
	return out
}

// ToModelSubsidiaryLine converts a domain SubsidiaryLine to its model.
func ToModelSubsidiaryLine(d domain.SubsidiaryLine) models.SubsidiaryLine {
	return models.SubsidiaryLine{
		Kind:                  models.VoucherKind(d.Kind),
		Number:                d.Number,
		Date:                  d.Date,
		AccountCode:           d.AccountCode,
		SubsidiaryCode:        d.SubsidiaryCode,
		SubsidiaryDescription: d.SubsidiaryDescription,
		Amount:                d.Amount,
	}
}

// ToDomainSubsidiaryLine converts a model SubsidiaryLine to its domain form.
func ToDomainSubsidiaryLine(m models.SubsidiaryLine) domain.SubsidiaryLine {
	return domain.SubsidiaryLine{
		Kind:                  domain.VoucherKind(m.Kind),
		Number:                m.Number,
		Date:                  m.Date,
		AccountCode:           m.AccountCode,
		SubsidiaryCode:        m.SubsidiaryCode,
		SubsidiaryDescription: m.SubsidiaryDescription,
		Amount:                m.Amount,
	}
}

// ToDomainSubsidiaryLineSlice converts a slice of model subsidiary lines.
func ToDomainSubsidiaryLineSlice(ms []models.SubsidiaryLine) []domain.SubsidiaryLine {
	out := make([]domain.SubsidiaryLine, len(ms))
	for i, m := range ms {
		out[i] = ToDomainSubsidiaryLine(m)
	}
	return out
}

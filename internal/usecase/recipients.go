package usecase

import "github.com/Gunvolt24/notify_gateway/internal/domain"

// RecipientMapper — превращает номер удостоверения личности в получателя upstream.
// Для тестовых номеров из конфигурации вместо номера отправляется адрес почты.
type RecipientMapper struct {
	testEmails map[string]string
}

// NewRecipientMapper — конструктор. testEmails: номер → адрес почты.
func NewRecipientMapper(testEmails map[string]string) *RecipientMapper {
	m := make(map[string]string, len(testEmails))
	for nin, email := range testEmails {
		if nin != "" && email != "" {
			m[nin] = email
		}
	}
	return &RecipientMapper{testEmails: m}
}

// Recipient — получатель для одного номера.
func (m *RecipientMapper) Recipient(nin string) domain.Recipient {
	if email, ok := m.testEmails[nin]; ok {
		return domain.Recipient{EmailAddress: email}
	}
	return domain.Recipient{NationalIdentityNumber: nin}
}

// Recipients — получатели для списка номеров с сохранением порядка.
func (m *RecipientMapper) Recipients(nins []string) []domain.Recipient {
	out := make([]domain.Recipient, 0, len(nins))
	for _, nin := range nins {
		out = append(out, m.Recipient(nin))
	}
	return out
}

// uniqueStrings — удаление повторов с сохранением первого вхождения.
func uniqueStrings(in []string) []string {
	if in == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

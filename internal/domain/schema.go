package domain

import (
	"fmt"
	"strings"
)

// Имена колонок локального кэша (дружественная схема после переименования)
const (
	ColDate             = "Date"
	ColSubscriptionType = "Subscription_Type"
	ColCompany          = "Company"
	ColLocation         = "Location"
	ColPackageName      = "Package_Name"
	ColUserID           = "User_ID"
	ColUserStatus       = "User_Status"
	ColRecruitMode      = "Recruit_Mode"
	ColCancellationRsn  = "Cancellation_Reason"
	ColAmountPaid       = "lastAmountPaidEUR"
	ColPaymentReceived  = "lastPaymentReceivedOn"
	ColInitialSubsStart = "initialSubsStartDate"
	ColCancelledAt      = "subscriptionCanceledAt"
	ColCustomerCreated  = "customerCreatedTimeUTC"
	ColConvertedTrial   = "convertedFromTrial"
)

// RawRow сырая строка табличной выборки до типизации
type RawRow map[string]string

// MissingColumnError сообщает об отсутствии обязательных колонок во входной
// таблице. Страница отчета деградирует с видимым предупреждением, процесс
// не падает.
type MissingColumnError struct {
	Columns []string
}

// Error реализует интерфейс error
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("data missing required columns: [%s]", strings.Join(e.Columns, ", "))
}

// CheckColumns проверяет присутствие обязательных колонок в наборе строк.
// Проверка выполняется один раз на нормализации, а не точечно по страницам.
func CheckColumns(rows []RawRow, required ...string) error {
	if len(rows) == 0 {
		return nil
	}

	var missing []string
	for _, col := range required {
		if _, ok := rows[0][col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return &MissingColumnError{Columns: missing}
	}
	return nil
}

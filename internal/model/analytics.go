package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// OverviewAnalytics は当日の求人と収益の概況。金額はパイサ単位。
type OverviewAnalytics struct {
	JobsCreatedToday            int             `json:"jobsCreatedToday"`
	JobsCompletedToday          int             `json:"jobsCompletedToday"`
	JobsCancelledOrExpiredToday int             `json:"jobsCancelledOrExpiredToday"`
	GrossJobValueToday          decimal.Decimal `json:"grossJobValueToday"`
	PlatformFeeToday            decimal.Decimal `json:"platformFeeToday"`
	GatewayFeesToday            decimal.Decimal `json:"gatewayFeesToday"`
	NetPlatformRevenueToday     decimal.Decimal `json:"netPlatformRevenueToday"`
}

// PaymentsHealthAnalytics は決済の健全性指標。
type PaymentsHealthAnalytics struct {
	PaymentsCreatedToday           int  `json:"paymentsCreatedToday"`
	PaymentsCompletedToday         int  `json:"paymentsCompletedToday"`
	PaymentsPending                int  `json:"paymentsPending"`
	PaymentsPendingOver15Min       int  `json:"paymentsPendingOver15Min"`
	PaymentsFailed                 int  `json:"paymentsFailed"`
	OldestPendingPaymentAgeMinutes *int `json:"oldestPendingPaymentAgeMinutes"`
}

// WalletHealthAnalytics はウォレットの健全性指標。
type WalletHealthAnalytics struct {
	WalletCreditsToday     int  `json:"walletCreditsToday"`
	WalletDebitsToday      int  `json:"walletDebitsToday"`
	ManualAdjustmentsToday int  `json:"manualAdjustmentsToday"`
	MismatchedWalletCount  *int `json:"mismatchedWalletCount"`
}

// JobExecutionAnalytics は求人の実施状況。
type JobExecutionAnalytics struct {
	JobsInProgress        int `json:"jobsInProgress"`
	ExpectedCheckinsToday int `json:"expectedCheckinsToday"`
	ActualCheckinsToday   int `json:"actualCheckinsToday"`
	AutoCheckoutsToday    int `json:"autoCheckoutsToday"`
	NoShowsToday          int `json:"noShowsToday"`
}

// SettlementsAnalytics は精算の進捗。
type SettlementsAnalytics struct {
	JobsEligibleForSettlement int `json:"jobsEligibleForSettlement"`
	JobsSettledToday          int `json:"jobsSettledToday"`
	SettlementsPendingOver24h int `json:"settlementsPendingOver24h"`
	PayoutFailuresToday       int `json:"payoutFailuresToday"`
}

// IncidentsAnalytics はインシデントの発生状況。
type IncidentsAnalytics struct {
	PaymentIssuesToday       int `json:"paymentIssuesToday"`
	SettlementIssuesToday    int `json:"settlementIssuesToday"`
	ManualInterventionsToday int `json:"manualInterventionsToday"`
	UnresolvedIncidentsCount int `json:"unresolvedIncidentsCount"`
}

// DataEnvelope は分析APIの共通エンベロープ {data: ...}。
type DataEnvelope[T any] struct {
	Data T `json:"data"`
}

// JobTimelineEvent は求人タイムラインの1イベント。
type JobTimelineEvent struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// JobTimeline は1件の求人に関する全イベントの時系列。
type JobTimeline struct {
	Job struct {
		ID            string          `json:"id"`
		Title         string          `json:"title"`
		Employer      json.RawMessage `json:"employer,omitempty"`
		CurrentStatus json.RawMessage `json:"currentStatus,omitempty"`
		CreatedAt     string          `json:"createdAt"`
		UpdatedAt     string          `json:"updatedAt"`
	} `json:"job"`
	Timeline []JobTimelineEvent `json:"timeline"`
	Summary  struct {
		TotalEvents             int `json:"totalEvents"`
		PaymentsCount           int `json:"paymentsCount"`
		SettlementAttemptsCount int `json:"settlementAttemptsCount"`
		JobDaysCount            int `json:"jobDaysCount"`
		AuditLogsCount          int `json:"auditLogsCount"`
	} `json:"summary"`
}

// JobsBreakdownKey は集計のグループキー。
// 集計結果の `_id` がオブジェクトのため `id` は付与されない。
type JobsBreakdownKey struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	JobType       string `json:"jobType"`
	PayoutMode    string `json:"payoutMode"`
}

// JobsDetailed は求人の詳細分析。
type JobsDetailed struct {
	Breakdown []struct {
		Key             JobsBreakdownKey `json:"_id"`
		Count           int              `json:"count"`
		TotalAmount     decimal.Decimal  `json:"totalAmount"`
		TotalWorkers    int              `json:"totalWorkers"`
		AvgAmountPerJob decimal.Decimal  `json:"avgAmountPerJob"`
	} `json:"breakdown"`
	Trends []struct {
		Date        string          `json:"id"`
		Count       int             `json:"count"`
		Completed   int             `json:"completed"`
		Cancelled   int             `json:"cancelled"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
	} `json:"trends"`
	JobsWithIssues []struct {
		ID                    string          `json:"id"`
		Title                 string          `json:"title"`
		Employer              json.RawMessage `json:"employer,omitempty"`
		Status                string          `json:"status"`
		PaymentStatus         string          `json:"paymentStatus"`
		CompletionConfirmedAt string          `json:"completionConfirmedAt"`
		DaysSinceCompletion   int             `json:"daysSinceCompletion"`
		TotalAmount           decimal.Decimal `json:"totalAmount"`
	} `json:"jobsWithIssues"`
	Summary struct {
		TotalJobs           int             `json:"totalJobs"`
		TotalAmount         decimal.Decimal `json:"totalAmount"`
		TotalWorkers        int             `json:"totalWorkers"`
		JobsWithIssuesCount int             `json:"jobsWithIssuesCount"`
	} `json:"summary"`
}

// PaymentsDetailed は決済の詳細分析。
type PaymentsDetailed struct {
	Breakdown []struct {
		Key struct {
			Status string `json:"status"`
			Type   string `json:"type"`
		} `json:"_id"`
		Count       int             `json:"count"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
		AvgAmount   decimal.Decimal `json:"avgAmount"`
	} `json:"breakdown"`
	ProcessingTimes []struct {
		Type              string  `json:"id"`
		AvgProcessingTime float64 `json:"avgProcessingTime"`
		MinProcessingTime float64 `json:"minProcessingTime"`
		MaxProcessingTime float64 `json:"maxProcessingTime"`
		Count             int     `json:"count"`
	} `json:"processingTimes"`
	FailedPayments []struct {
		ID            string          `json:"id"`
		Type          string          `json:"type"`
		Amount        decimal.Decimal `json:"amount"`
		FailureReason string          `json:"failureReason,omitempty"`
		CreatedAt     string          `json:"createdAt"`
		User          json.RawMessage `json:"user,omitempty"`
		Job           json.RawMessage `json:"job,omitempty"`
	} `json:"failedPayments"`
	PendingPaymentsByAge []struct {
		Bucket      string          `json:"id"`
		Count       int             `json:"count"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
	} `json:"pendingPaymentsByAge"`
	Summary struct {
		TotalPayments int             `json:"totalPayments"`
		TotalAmount   decimal.Decimal `json:"totalAmount"`
		FailedCount   int             `json:"failedCount"`
		PendingCount  int             `json:"pendingCount"`
	} `json:"summary"`
}

// PoolHealthStatus は保護プールの健全性区分。
type PoolHealthStatus string

const (
	PoolHealthy  PoolHealthStatus = "HEALTHY"
	PoolLow      PoolHealthStatus = "LOW"
	PoolCritical PoolHealthStatus = "CRITICAL"
)

// PoolDailyTracking は保護プールの日次の増減。
type PoolDailyTracking struct {
	Date             string          `json:"date"`
	Contributions    decimal.Decimal `json:"contributions"`
	Payouts          decimal.Decimal `json:"payouts"`
	NetChange        decimal.Decimal `json:"netChange"`
	JobsContributing int             `json:"jobsContributing"`
	JobsPaidFromPool int             `json:"jobsPaidFromPool"`
}

// ProtectionPoolAnalytics は賃金保護プールの分析。
type ProtectionPoolAnalytics struct {
	Current struct {
		Balance             decimal.Decimal `json:"balance"`
		TotalContributions  decimal.Decimal `json:"totalContributions"`
		TotalPayouts        decimal.Decimal `json:"totalPayouts"`
		ProtectionCapPerJob decimal.Decimal `json:"protectionCapPerJob"`
		NetValue            decimal.Decimal `json:"netValue"`
		LastUpdated         string          `json:"lastUpdated"`
	} `json:"current"`
	Today         PoolDailyTracking   `json:"today"`
	DailyTracking []PoolDailyTracking `json:"dailyTracking"`
	Coverage      struct {
		JobsCoveredCount   int             `json:"jobsCoveredCount"`
		TotalCoveredAmount decimal.Decimal `json:"totalCoveredAmount"`
		EmployerDebtsCount int             `json:"employerDebtsCount"`
		TotalUnpaidDebt    decimal.Decimal `json:"totalUnpaidDebt"`
		EligibleJobsCount  int             `json:"eligibleJobsCount"`
	} `json:"coverage"`
	Health struct {
		Status                    PoolHealthStatus `json:"status"`
		Message                   string           `json:"message"`
		Balance                   decimal.Decimal  `json:"balance"`
		AvgJobAmount              decimal.Decimal  `json:"avgJobAmount"`
		EstimatedCoverageCapacity float64          `json:"estimatedCoverageCapacity"`
		UtilizationRate           float64          `json:"utilizationRate"`
	} `json:"health"`
	JobsCovered []struct {
		ID        string          `json:"id"`
		Title     string          `json:"title"`
		Employer  json.RawMessage `json:"employer,omitempty"`
		Amount    decimal.Decimal `json:"amount"`
		PaidAt    string          `json:"paidAt"`
		CreatedAt string          `json:"createdAt"`
	} `json:"jobsCovered"`
	EmployerDebts []struct {
		ID         string          `json:"id"`
		Employer   json.RawMessage `json:"employer,omitempty"`
		Job        json.RawMessage `json:"job,omitempty"`
		Amount     decimal.Decimal `json:"amount"`
		AmountPaid decimal.Decimal `json:"amountPaid"`
		Remaining  decimal.Decimal `json:"remaining"`
		Status     string          `json:"status"`
		CreatedAt  string          `json:"createdAt"`
	} `json:"employerDebts"`
}

package report

import (
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/pulse/pkg/usecase"
)

// New builds the reporting tools exposed to the agent. Every tool
// refreshes its target date through the sync engine before answering,
// so the agent always reports from fresh data.
func New(uc *usecase.UseCases) []gollem.Tool {
	return []gollem.Tool{
		&dailyCheckinsTool{uc: uc},
		&absenteesTool{uc: uc},
		&userCheckinTool{uc: uc},
		&cumulativeReportTool{uc: uc},
	}
}

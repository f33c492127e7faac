package monitor

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"go.uber.org/mock/gomock"

	"garagemon.xyz/govee-monitor-service/pkg/db"
	"garagemon.xyz/govee-monitor-service/pkg/monitor/mocks"
)

// GetMockMonitorWithMemorySqliteDialector wires a Monitor against the
// shared in-memory sqlite and a gomock plug controller. The plug mock
// is always installed so decision tests can assert on issued commands.
func GetMockMonitorWithMemorySqliteDialector(t *testing.T) (
	*gomock.Controller,
	*Monitor,
	*mocks.MockPlugController,
) {
	ctrl := gomock.NewController(t)

	mockPlug := mocks.NewMockPlugController(ctrl)
	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations

	mon := &Monitor{
		Db:             *dbInstance,
		Plug:           mockPlug,
		CommandBackoff: 1, // nanosecond backoff keeps retry tests fast
	}
	mon.WithServices(ServiceOpts{
		Settings: mon.GetISettings(),
		Reading:  mon.GetIReading(),
		Decision: mon.GetIDecision(),
	})

	return ctrl, mon, mockPlug
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

package memory

import (
	"github.com/secmon-lab/pulse/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	user      *userRepository
	checkin   *checkinRepository
	absentee  *absenteeRepository
	syncState *syncStateRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		user:      newUserRepository(),
		checkin:   newCheckinRepository(),
		absentee:  newAbsenteeRepository(),
		syncState: newSyncStateRepository(),
	}
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) CheckIn() interfaces.CheckInRepository {
	return m.checkin
}

func (m *Memory) Absentee() interfaces.AbsenteeRepository {
	return m.absentee
}

func (m *Memory) SyncState() interfaces.SyncStateRepository {
	return m.syncState
}

func (m *Memory) Close() error {
	return nil
}

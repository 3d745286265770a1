package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	User() UserRepository
	CheckIn() CheckInRepository
	Absentee() AbsenteeRepository
	SyncState() SyncStateRepository

	Close() error
}

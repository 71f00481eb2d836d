package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Interaction() InteractionRepository
	Course() CourseRepository

	// Close releases the underlying connection. Safe to call on the
	// in-memory backend.
	Close() error
}

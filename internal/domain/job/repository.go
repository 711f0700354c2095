package job

// Repository stores sort job history
type Repository interface {
	Create(j *Job) error
	List(limit int) ([]Job, error)
}

package dbroute

/*
Default classification for operation-name prefixes recognized by
NewClassifier():

	  Prefix    Intent
	---------- --------
	| get     | READ  |
	| select  | READ  |
	| find    | READ  |
	| list    | READ  |
	| query   | READ  |
	| (other) | WRITE |
*/

// Intent is the classified effect of a logical data-access operation.
type Intent uint32

const (
	// WriteIntent means the operation may modify data and must be executed
	// on the master pool.
	WriteIntent Intent = iota
	// ReadIntent means the operation only reads data and may be executed on
	// a replica.
	ReadIntent
)

func (i Intent) String() string {
	switch i {
	case WriteIntent:
		return "write"
	case ReadIntent:
		return "read"
	default:
		return "unknown"
	}
}

// Role describes what a registered pool is allowed to serve.
type Role uint32

const (
	// UnknownRole marks an instance whose role was never assigned.
	UnknownRole Role = iota
	// MasterRole is the writable pool. A registry holds exactly one and it
	// is the default routing target.
	MasterRole
	// ReplicaRole is a read-only pool; its data may lag the master.
	ReplicaRole
)

func (r Role) String() string {
	switch r {
	case MasterRole:
		return "master"
	case ReplicaRole:
		return "replica"
	default:
		return "unknown"
	}
}

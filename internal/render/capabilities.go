package render

// RowLockingLevel indicates the level of row-level locking support.
type RowLockingLevel int

const (
	RowLockingNone  RowLockingLevel = iota // No row locking
	RowLockingBasic                        // FOR UPDATE, FOR SHARE
	RowLockingFull                         // + FOR NO KEY UPDATE, FOR KEY SHARE
)

// Capabilities describes the SQL features supported by a dialect.
type Capabilities struct {
	CaseInsensitiveLike bool            // ILIKE operator
	Returning           bool            // RETURNING clause
	LockWait            bool            // NOWAIT, SKIP LOCKED
	NullsOrdering       bool            // NULLS FIRST/LAST in ORDER BY
	RowLocking          RowLockingLevel // FOR UPDATE/SHARE support
}

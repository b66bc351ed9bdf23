package types

// Chain-wide constants mirrored from the CKB protocol. The harness treats
// these as fixed rather than querying them from consensus info, matching
// what the original benchmark hardcoded.
const (
	// MinSecpCellCapacity is the minimum capacity (in shannon) a cell
	// locked by a standard sighash-all script may hold.
	MinSecpCellCapacity Uint64 = 61_0000_0000

	// DepGroupTransactionIndex is the index, within the genesis block,
	// of the transaction whose outputs are the system dep-group cells.
	DepGroupTransactionIndex = 1

	// SighashAllDepGroupCellIndex is the output index, within the
	// dep-group transaction, of the sighash-all dep-group cell.
	SighashAllDepGroupCellIndex = 0

	// SighashAllTypeScriptCellIndex is the output index, within the
	// genesis block's first transaction, of the cell whose type script
	// hash identifies the sighash-all lock code.
	SighashAllTypeScriptCellIndex = 1

	// CellbaseMaturityFactor scales the epoch length to determine the
	// default cellbase maturity window in blocks: tip > N + 1800*factor.
	// Configurable deployments instead pass an explicit window (blocks)
	// to IsCellbaseMature — see consensus_cellbase_maturity in config.
	CellbaseMaturityFactor = 4

	// DefaultCellbaseMaturityWindow is the default cellbase maturity
	// window in blocks, applying CellbaseMaturityFactor to CKB's nominal
	// 1800-block epoch.
	DefaultCellbaseMaturityWindow = 1800 * CellbaseMaturityFactor

	// DefaultConfirmationBlocks is the default depth behind the chain
	// tip the harness treats as settled (immune to reorg) when
	// computing a "confirmed tip" across a set of endpoints.
	DefaultConfirmationBlocks = 0

	// DefaultReorgRollback is the default number of UTXO-tracker blocks
	// to roll back and replay when a tracked endpoint's reported tip
	// hash for a previously-seen height changes (a reorg).
	DefaultReorgRollback = 1000

	// MinFeeRate is the node's minimum fee rate (shannons per KB) the
	// harness assumes. EstimateFee charges this amount once per output,
	// as an over-approximation of that rate.
	MinFeeRate Uint64 = 1000
)

// IsCellbaseMature reports whether a cellbase output created at block
// cellbaseNumber may be spent once the chain tip reaches tipNumber, given
// a maturity window in blocks. Deployments load window from
// consensus_cellbase_maturity; DefaultCellbaseMaturityWindow applies when
// unconfigured.
func IsCellbaseMature(tipNumber, cellbaseNumber, window uint64) bool {
	return tipNumber > cellbaseNumber+window
}

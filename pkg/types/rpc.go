package types

import "encoding/json"

// RPCRequest is a JSON-RPC 2.0 request, as sent to a CKB node.
type RPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      uint64        `json:"id"`
}

// RPCResponse is a JSON-RPC 2.0 response.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

// RPCError is a JSON-RPC 2.0 error object. CKB overloads Message with
// substrings ("PoolIsFull", "TransactionFailedToResolve") that callers must
// pattern-match on since there is no dedicated error code for them.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// BlockTemplate is the result of get_block_template, the unsigned-block
// scaffold a miner fills with a PoW/PoA solution and resubmits via
// submit_block.
type BlockTemplate struct {
	Version          Uint64            `json:"version"`
	CompactTarget    Uint64            `json:"compact_target"`
	CurrentTime      Uint64            `json:"current_time"`
	Number           Uint64            `json:"number"`
	ParentHash       Hash              `json:"parent_hash"`
	Epoch            Uint64            `json:"epoch"`
	WorkID           Uint64            `json:"work_id"`
	CyclesLimit      Uint64            `json:"cycles_limit"`
	BytesLimit       Uint64            `json:"bytes_limit"`
	UnclesCountLimit Uint64            `json:"uncles_count_limit"`
	Transactions     []TemplateTxEntry `json:"transactions"`
	Proposals        []HexBytes        `json:"proposals"`
	Cellbase         TemplateTxEntry   `json:"cellbase"`
}

// TemplateTxEntry is one transaction slot inside a block template.
type TemplateTxEntry struct {
	Hash        Hash        `json:"hash"`
	Transaction Transaction `json:"data"`
}

// TxPoolInfo is the result of tx_pool_info: counts used to detect an empty
// or saturated pending pool.
type TxPoolInfo struct {
	TipHash          Hash   `json:"tip_hash"`
	TipNumber        Uint64 `json:"tip_number"`
	Pending          Uint64 `json:"pending"`
	Proposed         Uint64 `json:"proposed"`
	Orphan           Uint64 `json:"orphan"`
	TotalTxSize      Uint64 `json:"total_tx_size"`
	TotalTxCycles    Uint64 `json:"total_tx_cycles"`
	MinFeeRate       Uint64 `json:"min_fee_rate"`
	LastTxsUpdatedAt Uint64 `json:"last_txs_updated_at"`
}

// LocalNodeInfo is the result of local_node_info.
type LocalNodeInfo struct {
	Version     string        `json:"version"`
	NodeID      string        `json:"node_id"`
	Addresses   []NodeAddress `json:"addresses"`
	Connections Uint64        `json:"connections"`
}

// RemoteNodeInfo is one entry of get_peers.
type RemoteNodeInfo struct {
	Version   string        `json:"version"`
	NodeID    string        `json:"node_id"`
	Addresses []NodeAddress `json:"addresses"`
}

// NodeAddress is a single listen/observed multiaddr with its dial score.
type NodeAddress struct {
	Address string `json:"address"`
	Score   Uint64 `json:"score"`
}

// CellWithStatus is the result of get_live_cell: the cell payload plus
// whether it is still live, already spent, or unknown to the node.
type CellWithStatus struct {
	Cell   *LiveCell `json:"cell,omitempty"`
	Status string    `json:"status"`
}

// LiveCell is the output plus data blob returned by get_live_cell.
type LiveCell struct {
	Output CellOutput `json:"output"`
	Data   *CellData  `json:"data,omitempty"`
}

// CellData carries a cell's data blob and its hash.
type CellData struct {
	Content HexBytes `json:"content"`
	Hash    Hash     `json:"hash"`
}

package types

import "encoding/json"

// Header is the CKB block header shape returned by get_tip_header,
// get_header, and embedded in get_block responses. The harness only reads
// headers (it never constructs or validates PoW); fields beyond Number,
// Hash, and Timestamp exist so a header round-trips through JSON without
// data loss.
type Header struct {
	CompactTarget    Uint64   `json:"compact_target"`
	Hash             Hash     `json:"hash"`
	Number           Uint64   `json:"number"`
	ParentHash       Hash     `json:"parent_hash"`
	Nonce            Uint64   `json:"nonce"`
	Timestamp        Uint64   `json:"timestamp"`
	TransactionsRoot Hash     `json:"transactions_root"`
	ProposalsHash    Hash     `json:"proposals_hash"`
	ExtraHash        Hash     `json:"extra_hash"`
	Version          Uint64   `json:"version"`
	Epoch            Uint64   `json:"epoch"`
	Dao              HexBytes `json:"dao"`
}

// Block is the full block shape returned by get_block, and the shape
// submitted via submit_block.
type Block struct {
	Header       Header        `json:"header"`
	Transactions []Transaction `json:"transactions"`
	Proposals    []HexBytes    `json:"proposals"`
	Uncles       []json.RawMessage `json:"uncles"`
}

package rpcclient

import (
	"fmt"

	"github.com/ckb-tps-bench/bench/pkg/types"
)

// GetTipHeader returns the current tip header.
func (c *Client) GetTipHeader() (*types.Header, error) {
	var h types.Header
	if err := c.Call("get_tip_header", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// GetTipBlockNumber returns the current tip block number.
func (c *Client) GetTipBlockNumber() (uint64, error) {
	var n types.Uint64
	if err := c.Call("get_tip_block_number", nil, &n); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// GetHeaderByNumber returns the header at the given block number, or nil
// if the node has not reached that height.
func (c *Client) GetHeaderByNumber(number uint64) (*types.Header, error) {
	var h *types.Header
	if err := c.Call("get_header_by_number", []interface{}{types.Uint64(number)}, &h); err != nil {
		return nil, err
	}
	return h, nil
}

// GetBlockByNumber returns the full block at the given number, or nil.
func (c *Client) GetBlockByNumber(number uint64) (*types.Block, error) {
	var b *types.Block
	if err := c.Call("get_block_by_number", []interface{}{types.Uint64(number)}, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBlock returns the full block with the given hash, or nil.
func (c *Client) GetBlock(hash types.Hash) (*types.Block, error) {
	var b *types.Block
	if err := c.Call("get_block", []interface{}{hash}, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBlockHash returns the hash of the block at the given number, or nil.
func (c *Client) GetBlockHash(number uint64) (*types.Hash, error) {
	var h *types.Hash
	if err := c.Call("get_block_hash", []interface{}{types.Uint64(number)}, &h); err != nil {
		return nil, err
	}
	return h, nil
}

// GetTransaction returns a transaction and its pool/chain status, or nil.
func (c *Client) GetTransaction(hash types.Hash) (*types.TransactionWithStatus, error) {
	var tws *types.TransactionWithStatus
	if err := c.Call("get_transaction", []interface{}{hash}, &tws); err != nil {
		return nil, err
	}
	return tws, nil
}

// GetLiveCell returns a cell's output (and optionally its data), along
// with whether it is still live.
func (c *Client) GetLiveCell(out types.OutPoint, withData bool) (*types.CellWithStatus, error) {
	var cws types.CellWithStatus
	if err := c.Call("get_live_cell", []interface{}{out, withData}, &cws); err != nil {
		return nil, err
	}
	return &cws, nil
}

// GetBlockTemplate requests a new unsigned block scaffold from the node.
func (c *Client) GetBlockTemplate() (*types.BlockTemplate, error) {
	var bt types.BlockTemplate
	if err := c.Call("get_block_template", []interface{}{}, &bt); err != nil {
		return nil, err
	}
	return &bt, nil
}

// SubmitBlock submits a completed block under workID, returning the
// resulting block hash.
func (c *Client) SubmitBlock(workID string, block types.Block) (*types.Hash, error) {
	var hash *types.Hash
	if err := c.Call("submit_block", []interface{}{workID, block}, &hash); err != nil {
		return nil, err
	}
	return hash, nil
}

// SendTransaction submits tx to the node's pending pool and returns its
// hash on acceptance.
func (c *Client) SendTransaction(tx types.Transaction) (types.Hash, error) {
	var hash types.Hash
	if err := c.Call("send_transaction", []interface{}{tx}, &hash); err != nil {
		return types.Hash{}, err
	}
	return hash, nil
}

// TxPoolInfo returns the node's pending/proposed/orphan pool counts.
func (c *Client) TxPoolInfo() (*types.TxPoolInfo, error) {
	var info types.TxPoolInfo
	if err := c.Call("tx_pool_info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// LocalNodeInfo returns the node's own identity and listen addresses.
func (c *Client) LocalNodeInfo() (*types.LocalNodeInfo, error) {
	var info types.LocalNodeInfo
	if err := c.Call("local_node_info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetPeers returns the node's currently connected remote peers.
func (c *Client) GetPeers() ([]types.RemoteNodeInfo, error) {
	var peers []types.RemoteNodeInfo
	if err := c.Call("get_peers", nil, &peers); err != nil {
		return nil, err
	}
	return peers, nil
}

// IsTxPoolEmpty reports whether the node has no pending, proposed, or
// orphan transactions — the condition the bench driver waits for before
// starting each benchmark.
func (c *Client) IsTxPoolEmpty() (bool, error) {
	info, err := c.TxPoolInfo()
	if err != nil {
		return false, fmt.Errorf("tx_pool_info: %w", err)
	}
	return info.Pending == 0 && info.Proposed == 0 && info.Orphan == 0, nil
}

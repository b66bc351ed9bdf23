package endpointset

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ckb-tps-bench/bench/pkg/types"
)

// fakeNode serves get_header_by_number, get_tip_block_number, and
// tx_pool_info from a fixed in-memory chain of headers.
type fakeNode struct {
	headers      map[uint64]types.Hash
	blocks       map[uint64]types.Block
	tip          uint64
	poolPending  uint64
}

func newFakeNode(tip uint64, headers map[uint64]types.Hash) *httptest.Server {
	return newFakeNodeFull(tip, headers, nil)
}

func newFakeNodeFull(tip uint64, headers map[uint64]types.Hash, blocks map[uint64]types.Block) *httptest.Server {
	n := &fakeNode{headers: headers, blocks: blocks, tip: tip}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req types.RPCRequest
		json.NewDecoder(r.Body).Decode(&req)
		resp := types.RPCResponse{JSONRPC: "2.0", ID: req.ID}

		switch req.Method {
		case "get_tip_block_number":
			resp.Result, _ = json.Marshal(types.Uint64(n.tip))
		case "get_header_by_number":
			var num types.Uint64
			json.Unmarshal(mustMarshal(req.Params[0]), &num)
			if hash, ok := n.headers[uint64(num)]; ok {
				h := types.Header{Number: num, Hash: hash}
				resp.Result, _ = json.Marshal(h)
			} else {
				resp.Result = []byte("null")
			}
		case "tx_pool_info":
			info := types.TxPoolInfo{Pending: types.Uint64(n.poolPending)}
			resp.Result, _ = json.Marshal(info)
		case "get_block_by_number":
			var num types.Uint64
			json.Unmarshal(mustMarshal(req.Params[0]), &num)
			if b, ok := n.blocks[uint64(num)]; ok {
				resp.Result, _ = json.Marshal(b)
			} else {
				resp.Result = []byte("null")
			}
		default:
			resp.Error = &types.RPCError{Code: -32601, Message: "method not found"}
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func mustMarshal(v interface{}) []byte {
	b, _ := json.Marshal(v)
	return b
}

func TestSet_New_Deduplicates(t *testing.T) {
	s := New([]string{"http://a", "http://b", "http://a"}, 0)
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestSet_FixedHeader_Agreement(t *testing.T) {
	hashA := types.Hash{0xaa}
	srv1 := newFakeNode(10, map[uint64]types.Hash{5: hashA})
	defer srv1.Close()
	srv2 := newFakeNode(10, map[uint64]types.Hash{5: hashA})
	defer srv2.Close()

	s := New([]string{srv1.URL, srv2.URL}, 0)
	h, err := s.FixedHeader(5)
	if err != nil {
		t.Fatalf("FixedHeader: %v", err)
	}
	if h == nil || h.Hash != hashA {
		t.Errorf("expected agreed header %v, got %v", hashA, h)
	}
}

func TestSet_FixedHeader_Disagreement(t *testing.T) {
	srv1 := newFakeNode(10, map[uint64]types.Hash{5: {0xaa}})
	defer srv1.Close()
	srv2 := newFakeNode(10, map[uint64]types.Hash{5: {0xbb}})
	defer srv2.Close()

	s := New([]string{srv1.URL, srv2.URL}, 0)
	h, err := s.FixedHeader(5)
	if err != nil {
		t.Fatalf("FixedHeader: %v", err)
	}
	if h != nil {
		t.Errorf("expected nil on disagreement, got %v", h)
	}
}

func TestSet_IsTxpoolEmpty(t *testing.T) {
	srv1 := newFakeNode(10, nil)
	defer srv1.Close()
	srv2 := newFakeNode(10, nil)
	defer srv2.Close()

	s := New([]string{srv1.URL, srv2.URL}, 0)
	empty, err := s.IsTxpoolEmpty()
	if err != nil {
		t.Fatalf("IsTxpoolEmpty: %v", err)
	}
	if !empty {
		t.Error("expected empty pool across both endpoints")
	}
}

func TestSet_ConfirmedTipHeader_AppliesConfirmationBlocks(t *testing.T) {
	headers := map[uint64]types.Hash{
		10: {0x01}, 9: {0x02}, 8: {0x03}, 7: {0x04}, 6: {0x05},
	}
	srv1 := newFakeNode(10, headers)
	defer srv1.Close()
	srv2 := newFakeNode(10, headers)
	defer srv2.Close()

	s := New([]string{srv1.URL, srv2.URL}, 3)
	h, err := s.ConfirmedTipHeader()
	if err != nil {
		t.Fatalf("ConfirmedTipHeader: %v", err)
	}
	if h.Number != 7 {
		t.Errorf("confirmed tip number = %d, want 7", h.Number)
	}
}

// TestSet_ConfirmedTipHeader_TrustsPrimaryAtConfirmedHeight exercises the
// case where the confirmed height, unlike the unconfirmed tip, is NOT
// agreed across endpoints: ConfirmedTipHeader must still return the
// primary endpoint's view rather than erroring, matching net.rs's
// get_confirmed_tip_header (which re-fetches the confirmed header from
// endpoint 0 alone, with no cross-endpoint check).
func TestSet_ConfirmedTipHeader_TrustsPrimaryAtConfirmedHeight(t *testing.T) {
	agreedTip := map[uint64]types.Hash{10: {0x01}, 9: {0x02}, 8: {0x03}}
	srv1 := newFakeNode(10, mergeHashes(agreedTip, map[uint64]types.Hash{7: {0xaa}}))
	defer srv1.Close()
	srv2 := newFakeNode(10, mergeHashes(agreedTip, map[uint64]types.Hash{7: {0xbb}}))
	defer srv2.Close()

	s := New([]string{srv1.URL, srv2.URL}, 3)
	h, err := s.ConfirmedTipHeader()
	if err != nil {
		t.Fatalf("ConfirmedTipHeader: %v", err)
	}
	if h == nil || h.Number != 7 || h.Hash != (types.Hash{0xaa}) {
		t.Errorf("ConfirmedTipHeader() = %+v, want the primary endpoint's header 7 despite endpoint disagreement there", h)
	}
}

func mergeHashes(a, b map[uint64]types.Hash) map[uint64]types.Hash {
	m := make(map[uint64]types.Hash, len(a)+len(b))
	for k, v := range a {
		m[k] = v
	}
	for k, v := range b {
		m[k] = v
	}
	return m
}

func TestSet_GetBlockByNumber_DelegatesToPrimaryEndpoint(t *testing.T) {
	blocks := map[uint64]types.Block{
		5: {Header: types.Header{Number: 5}},
	}
	srv1 := newFakeNodeFull(10, nil, blocks)
	defer srv1.Close()
	srv2 := newFakeNodeFull(10, nil, nil)
	defer srv2.Close()

	s := New([]string{srv1.URL, srv2.URL}, 0)
	b, err := s.GetBlockByNumber(5)
	if err != nil {
		t.Fatalf("GetBlockByNumber: %v", err)
	}
	if b == nil || b.Header.Number != 5 {
		t.Errorf("GetBlockByNumber(5) = %+v, want block with header number 5 from the primary endpoint", b)
	}
}

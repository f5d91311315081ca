package matcher

import (
	"fmt"

	"github.com/kaptinlin/xgrammar"
)

// FillNextTokenBitmask sets, in buf, the bit for every vocabulary token
// that the grammar would accept as the very next token, plus the
// end-of-sequence id when the current state already accepts termination.
// buf is one row of the table AllocateTokenBitmask returns; index is not
// used, since the caller passes the row itself.
func (m *GrammarMatcher) FillNextTokenBitmask(buf []uint32, index int) error {
	info := m.cg.TokenizerInfo()
	if info == nil {
		return fmt.Errorf("matcher: grammar has no associated TokenizerInfo")
	}
	needed := (info.VocabSize + 31) / 32
	if len(buf) < needed {
		return fmt.Errorf("matcher: bitmask buffer too small: have %d words, need %d", len(buf), needed)
	}
	for i := range buf {
		buf[i] = 0
	}

	allowed := m.nextByteSet()
	m.walkTrie(info.TrieRoot(), allowed, buf)

	if m.IsTerminated() {
		setBit(buf, info.EOSID)
	}
	return nil
}

// walkTrie descends the vocabulary's byte-prefix trie, pruning a whole
// subtree the moment its prefix byte isn't in allowed at the matcher's
// current position, and speculatively feeding accepted bytes through the
// real matcher (snapshotting/restoring around the descent) to confirm
// deeper tokens the fast first-byte filter alone can't rule out.
func (m *GrammarMatcher) walkTrie(node *xgrammar.TrieNode, allowed map[byte]bool, buf []uint32) {
	for _, id := range node.TokenIDs() {
		setBit(buf, id)
	}
	for b, child := range node.Children() {
		if !allowed[b] {
			continue
		}
		snap := m.snapshot()
		if m.AcceptByte(b) {
			childAllowed := m.nextByteSet()
			m.walkTrie(child, childAllowed, buf)
		}
		m.restore(snap)
	}
}

func setBit(buf []uint32, id int32) {
	buf[id/32] |= 1 << uint(id%32)
}

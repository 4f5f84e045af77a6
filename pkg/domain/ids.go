package domain

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Identifier prefixes by entity type.
const (
	PrefixHomeModule     = "hm"
	PrefixWorkbenchGroup = "wg"
	PrefixWorkbenchItem  = "wb"
	PrefixRAGEntry       = "rag"
	PrefixQuickLink      = "ql"
	PrefixAnnouncement   = "ann"
	PrefixDocument       = "doc"
	PrefixRisk           = "risk"
	PrefixIssue          = "issue"
	PrefixAction         = "action"
	PrefixDependency     = "dep"
	PrefixAssumption     = "asm"
	PrefixLesson         = "lesson"
	PrefixStatusUpdate   = "status"
	PrefixBudgetCategory = "budget"
	PrefixResource       = "res"
	PrefixAssetCategory  = "cat"
	PrefixAssetLink      = "link"
	PrefixOCMStep        = "step"
	PrefixOCMTopic       = "topic"
	PrefixOCMItem        = "item"
	PrefixOCMSidebarLink = "sl"
)

// IDGenerator allocates synthetic identifiers for new entities.
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator produces "<prefix>-<uuid>" identifiers.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// SequenceGenerator produces "<prefix>-<n>" identifiers from a shared counter.
// It is safe for concurrent use.
type SequenceGenerator struct {
	next atomic.Uint64
}

// NewID implements IDGenerator.
func (g *SequenceGenerator) NewID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, g.next.Add(1))
}

package utils

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var mu sync.Mutex
var seededRand *rand.Rand

func init() {
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GenerateReference produces a unique reference string for a ledger row,
// e.g. BFT-DEP-483920175xx. The prefix identifies the workflow.
func GenerateReference(kind string, userID uint) string {
	mu.Lock()
	defer mu.Unlock()

	nowNano := time.Now().UnixNano()
	nanoPart := nowNano % 1000000

	randPart := seededRand.Intn(900) + 100

	return fmt.Sprintf("BFT-%s-%06d%03d%d", kind, nanoPart, randPart, userID)
}

// Reference kinds.
const (
	RefDeposit    = "DEP"
	RefWithdrawal = "WDL"
	RefInvestment = "INV"
	RefReferral   = "REF"
	RefAdjustment = "ADJ"
)

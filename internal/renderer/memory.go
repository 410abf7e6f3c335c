package renderer

import (
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
)

// MemoryTypeResult is the outcome of SelectMemoryType. Index is 0 when
// nothing matched.
type MemoryTypeResult struct {
	Index int
	Found bool
}

// IndexOrLog returns the selected index, or logs an error and returns 0 when
// nothing matched. Callers that can fail should check Found instead.
func (r MemoryTypeResult) IndexOrLog(log logrus.FieldLogger) int {
	if !r.Found {
		log.Error("failed to find a suitable memory type, falling back to index 0")
	}
	return r.Index
}

// SelectMemoryType returns the first memory type allowed by typeBits whose
// property flags include every flag in desired. types holds the property
// flags of each memory type, in slot order.
func SelectMemoryType(typeBits uint32, types []core1_0.MemoryPropertyFlags, desired core1_0.MemoryPropertyFlags) MemoryTypeResult {
	for i, flags := range types {
		if i >= 32 {
			break
		}
		if (typeBits>>uint(i))&1 == 1 && (flags&desired) == desired {
			return MemoryTypeResult{Index: i, Found: true}
		}
	}

	return MemoryTypeResult{}
}

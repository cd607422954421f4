// SPDX-License-Identifier: NONE
package types

import (
	"fmt"
	"sort"
	"strings"
)

type (
	// StringSlice is a `[]string` with set-like convenience methods.
	// corvidutil.FreeNames returns one so callers get Sort/Locate for
	// free over a parse's recorded free-name set.
	StringSlice []string

	// Int32Slice is a `[]int32` with the same convenience methods.
	// corvidutil.CollectIDs returns one over a structural walk's
	// matching node ids.
	Int32Slice []int32
)

// Locate for `Int32Slice`.
func (sl *Int32Slice) Locate(val int32) (resl int) {
	resl = -1

	for index := range *sl {
		if (*sl)[index] == val {
			resl = index
			return
		}
	}

	return
}

// String is the `fmt.Stringer` interface implementation for `Int32Slice`.
func (sl *Int32Slice) String() (dst string) {
	lenSl := len(*sl)
	if lenSl > 0 {
		buffer := strings.Builder{}
		fmt.Fprintf(&buffer, "[%d", (*sl)[0])
		for index := 1; index < lenSl; index++ {
			fmt.Fprintf(&buffer, ",%d", (*sl)[index])
		}
		buffer.WriteString("]")

		dst = buffer.String()
	}

	return
}

// Sort for `Int32Slice`.
func (sl *Int32Slice) Sort() {
	sort.Slice(*sl, func(i, j int) bool { return (*sl)[i] < (*sl)[j] })
}

// Sort for `StringSlice`.
func (sl *StringSlice) Sort() {
	sort.Strings(*sl)
}

// Locate for `StringSlice`.
func (sl *StringSlice) Locate(val string) (resl int) {
	resl = -1

	for index := range *sl {
		if (*sl)[index] == val {
			resl = index
			return
		}
	}

	return
}

// UniquePrepend to `StringSlice`.
func (sl *StringSlice) UniquePrepend(values ...string) {
	if len(values) < 1 {
		return
	}

	for index := range values {
		newValue := values[index]
		if sl.Locate(newValue) > -1 {
			continue
		}

		*sl = append(StringSlice{newValue}, *sl...)
	}
}

// UniqueAppend to `StringSlice`.
func (sl *StringSlice) UniqueAppend(values ...string) {
	if len(values) < 1 {
		return
	}

	for index := range values {
		newValue := values[index]
		if sl.Locate(newValue) > -1 {
			continue
		}

		*sl = append(*sl, newValue)
	}
}

// Pop removes the first occurrence of each of values from `StringSlice`.
func (sl *StringSlice) Pop(values ...string) {
	for index := range values {
		if loc := sl.Locate(values[index]); loc > -1 {
			*sl = append((*sl)[:loc], (*sl)[loc+1:]...)
		}
	}
}

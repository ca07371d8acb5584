package dbg

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	petname "github.com/dustinkirkland/golang-petname"
	lru "github.com/hashicorp/golang-lru/v2"
)

// This converts arbitrary pointers into random readable names, so that log
// lines about the same closure set can be matched up by eye. Names are
// generated lazily, and only the most recent ones are remembered, so a long
// running process can ask for as many as it likes. Callers only ask for names
// when debug logging is on.
//
// Names are keyed by address, so naming an object never keeps it alive. Once
// it has been collected, its address (and name) may be reused.

const memoSize = 1024

var (
	mu   sync.Mutex
	memo *lru.Cache[uintptr, string]
)

func init() {
	var err error
	memo, err = lru.New[uintptr, string](memoSize)
	if err != nil {
		panic(err)
	}
	// Since the ids are generated in order of demand, we make them
	// nondeterministic to remind the user that the same name doesn't refer to
	// the same thing between runs.
	petname.NonDeterministicMode()
}

func Name(obj interface{}) string {
	if obj == nil || reflect.ValueOf(obj).IsNil() {
		return "Ø"
	}
	key := reflect.ValueOf(obj).Pointer()

	mu.Lock()
	defer mu.Unlock()
	if r, ok := memo.Get(key); ok {
		return r
	}
	r := fmt.Sprintf("%s%s", strings.Title(petname.Adjective()), strings.Title(petname.Name()))
	memo.Add(key, r)
	return r
}

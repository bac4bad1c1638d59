package loader

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultLuaTimeout bounds the run time of a registry script.
const DefaultLuaTimeout = time.Second

// Lua runs a registry script that returns a table:
//
//	return {
//	  match_timeout = "100ms",
//	  inline = {
//	    { name = "bold", pattern = [[((\*{2})|(_{2}))(?<text>.+?)\1]], bold = true },
//	  },
//	}
//
// Only the base, table, string and math libraries are available. Empty
// tables are dropped, so "inline = {}" keeps the built-in section.
type Lua struct {
	Timeout time.Duration
}

// Name implements Format.
func (Lua) Name() string { return "lua" }

// Decode implements Format.
func (f Lua) Decode(source string, data []byte) (cfg map[string]any, err error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibraries(L)

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultLuaTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	L.SetContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			err = &ParseError{Path: source, Message: fmt.Sprintf("lua panic: %v", r)}
		}
	}()

	fn, err := L.Load(bytes.NewReader(data), source)
	if err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
	}
	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case *lua.LNilType:
		return nil, nil
	case *lua.LTable:
		m, ok := tableToGo(v, map[*lua.LTable]bool{}).(map[string]any)
		if !ok {
			return nil, &ParseError{Path: source, Message: "script must return a table with string keys"}
		}
		return m, nil
	default:
		return nil, &ParseError{Path: source, Message: fmt.Sprintf("script must return a table, got %s", ret.Type())}
	}
}

func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

func toGo(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		return tableToGo(v, visited)
	default:
		return nil
	}
}

// tableToGo converts a sequence to []any and anything else to a map.
func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && count == n {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = toGo(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = strconv.FormatFloat(float64(kv), 'f', -1, 64)
		default:
			key = k.String()
		}
		if sub, ok := v.(*lua.LTable); ok && isEmpty(sub) {
			return
		}
		if gv := toGo(v, visited); gv != nil {
			m[key] = gv
		}
	})
	return m
}

func isEmpty(t *lua.LTable) bool {
	k, _ := t.Next(lua.LNil)
	return k == lua.LNil
}

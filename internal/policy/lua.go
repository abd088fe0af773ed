package policy

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// LuaPolicy is a Policy whose two hooks are scripted in Lua, adapted from
// the reference importer's internal/flex.Runtime (which loads a Lua Flex
// style file and pulls out process_node/process_way/process_relation
// globals). Here the surface is much smaller — a build-graph policy needs
// only two decisions, not a general OSM-to-table transform — so the script
// defines at most two globals:
//
//	function is_routable(tags)       -- tags maps each tag key to true
//	  return tags.highway ~= nil or tags.tracktype ~= nil
//	end
//
//	function edge_length(dx, dy)     -- decimeters
//	  return math.floor(math.sqrt(dx*dx + dy*dy))
//	end
//
// Either function may be omitted, in which case that hook falls back to
// Default's behavior.
type LuaPolicy struct {
	l          *lua.LState
	isRoutable lua.LValue
	edgeLength lua.LValue
}

// NewLuaPolicy loads the Lua script at path and returns a Policy backed by
// its is_routable/edge_length globals.
func NewLuaPolicy(path string) (*LuaPolicy, error) {
	l := lua.NewState(lua.Options{SkipOpenLibs: false})
	if err := l.DoFile(path); err != nil {
		l.Close()
		return nil, fmt.Errorf("policy: load lua script %s: %w", path, err)
	}
	return &LuaPolicy{
		l:          l,
		isRoutable: l.GetGlobal("is_routable"),
		edgeLength: l.GetGlobal("edge_length"),
	}, nil
}

// Close releases the Lua interpreter.
func (p *LuaPolicy) Close() {
	p.l.Close()
}

// Routable implements Policy.
func (p *LuaPolicy) Routable(_ int64, tagKeys []string, defaultRoutable bool) bool {
	if defaultRoutable {
		return true
	}
	if p.isRoutable == lua.LNil {
		return false
	}
	tagsTable := p.l.NewTable()
	for _, k := range tagKeys {
		p.l.SetField(tagsTable, k, lua.LTrue)
	}
	if err := p.l.CallByParam(lua.P{Fn: p.isRoutable, NRet: 1, Protect: true}, tagsTable); err != nil {
		return false
	}
	ret := p.l.Get(-1)
	p.l.Pop(1)
	return lua.LVAsBool(ret)
}

// EdgeLength implements Policy.
func (p *LuaPolicy) EdgeLength(dx, dy int32) uint16 {
	if p.edgeLength == lua.LNil {
		return Default{}.EdgeLength(dx, dy)
	}
	if err := p.l.CallByParam(lua.P{Fn: p.edgeLength, NRet: 1, Protect: true},
		lua.LNumber(dx), lua.LNumber(dy)); err != nil {
		return Default{}.EdgeLength(dx, dy)
	}
	ret := p.l.Get(-1)
	p.l.Pop(1)
	n := int(lua.LVAsNumber(ret))
	if n < 1 {
		return 1
	}
	if n > maxEdgeLength {
		return maxEdgeLength
	}
	return uint16(n)
}

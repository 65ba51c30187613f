package leveldata

import (
	"os"
	"strings"
	"testing"
	"testing/fstest"
)

const smallArena = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="10" height="8" tilewidth="16" tileheight="16" infinite="0" nextlayerid="3" nextobjectid="4">
 <objectgroup id="1" name="Obstacles">
  <object id="1" class="wall" x="32" y="0" width="16" height="64"/>
  <object id="2" x="96" y="32" width="32" height="16">
   <properties>
    <property name="height" type="float" value="2.5"/>
   </properties>
  </object>
 </objectgroup>
 <objectgroup id="2" name="BossSpawns">
  <object id="3" x="80" y="48">
   <properties>
    <property name="bossType" value="brute"/>
    <property name="health" type="int" value="900"/>
   </properties>
   <point/>
  </object>
 </objectgroup>
</map>
`

func TestLoad(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"levels/small.tmx": {Data: []byte(smallArena)}}
	level, err := Load(fsys, "levels/small.tmx")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if level.Name != "small" || level.Width != 10 || level.Depth != 8 {
		t.Errorf("level = %q %vx%v; want small 10x8", level.Name, level.Width, level.Depth)
	}

	want := []Obstacle{
		{X: 2, Z: 0, W: 1, D: 4, Solid: true},
		{X: 6, Z: 2, W: 2, D: 1, Height: 2.5},
	}
	if len(level.Obstacles) != len(want) {
		t.Fatalf("len(Obstacles) = %d; want %d", len(level.Obstacles), len(want))
	}
	for i, o := range level.Obstacles {
		if o != want[i] {
			t.Errorf("Obstacles[%d] = %+v; want %+v", i, o, want[i])
		}
	}

	if len(level.BossSpawns) != 1 {
		t.Fatalf("len(BossSpawns) = %d; want 1", len(level.BossSpawns))
	}
	s := level.BossSpawns[0]
	if s.SpawnerID != "spawn-3" || s.BossType != "brute" || s.Health != 900 || s.X != 5 || s.Z != 3 {
		t.Errorf("BossSpawns[0] = %+v; want spawn-3 brute 900hp at (5, 3)", s)
	}
}

func TestLoadRejectsSpawnWithoutType(t *testing.T) {
	t.Parallel()

	broken := strings.Replace(smallArena, `<property name="bossType" value="brute"/>`, "", 1)
	fsys := fstest.MapFS{"bad.tmx": {Data: []byte(broken)}}
	if _, err := Load(fsys, "bad.tmx"); err == nil {
		t.Error("Load() error = nil; want missing bossType error")
	}
}

func TestLoadAllShippedLevels(t *testing.T) {
	t.Parallel()

	levels, names, err := LoadAll(os.DirFS("../../assets"), "levels")
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(names) == 0 || levels["arena"] == nil {
		t.Fatalf("LoadAll() names = %v; want arena", names)
	}

	arena := levels["arena"]
	if len(arena.BossSpawns) != 2 || len(arena.PlayerSpawns) != 3 {
		t.Errorf("arena has %d boss spawns, %d player spawns; want 2 and 3",
			len(arena.BossSpawns), len(arena.PlayerSpawns))
	}
	for i, p := range arena.PlayerSpawns {
		if p.Index != i {
			t.Errorf("PlayerSpawns[%d].Index = %d; want sorted by index", i, p.Index)
		}
	}
}

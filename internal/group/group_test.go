package group

import (
	"reflect"
	"testing"
)

func TestGroup_Empty(t *testing.T) {
	if got := Group(nil); len(got) != 0 {
		t.Fatalf("空输入应得到空输出，实际 %d 组", len(got))
	}
}

func TestGroup_SingleUnitWithNestedChildren(t *testing.T) {
	got := Group([]string{
		"root/GameA/bin/a.exe",
		"root/GameA/data/sub/a2.exe",
	})
	if len(got) != 1 {
		t.Fatalf("期望 1 组，实际 %d", len(got))
	}
	g := got[0]
	if g.RootPath != "root/GameA" {
		t.Errorf("RootPath=%q，期望 root/GameA", g.RootPath)
	}
	if g.RootName != "GameA" {
		t.Errorf("RootName=%q，期望 GameA", g.RootName)
	}
	want := []string{"bin/a.exe", "data/sub/a2.exe"}
	if !reflect.DeepEqual(g.ChildPaths, want) {
		t.Errorf("ChildPaths=%v，期望 %v", g.ChildPaths, want)
	}
}

func TestGroup_MultipleGames(t *testing.T) {
	got := Group([]string{
		"root/GameB/play.exe",
		"root/GameA/game.exe",
	})
	if len(got) != 2 {
		t.Fatalf("期望 2 组，实际 %d", len(got))
	}
	// 按首个子路径排序：game.exe < play.exe。
	if got[0].RootName != "GameA" || got[1].RootName != "GameB" {
		t.Errorf("排序错误：%q, %q", got[0].RootName, got[1].RootName)
	}
}

func TestGroupUnder_WindowsSeparators(t *testing.T) {
	got := GroupUnder(`D:\Games`, []string{
		`D:\Games\GameA\game.exe`,
		`D:\Games\GameB\play.exe`,
	})
	if len(got) != 2 {
		t.Fatalf("期望 2 组，实际 %d", len(got))
	}
	if got[0].RootPath != "D:/Games/GameA" {
		t.Errorf("RootPath=%q，期望 D:/Games/GameA", got[0].RootPath)
	}
}

func TestGroup_PlatformDirKeepsFirstLevel(t *testing.T) {
	// 第一级带前缀标签，但第二级是平台名：平台名例外生效，根保持第一级。
	got := Group([]string{
		"root/【RPG汉化】MyGame/Windows/game.exe",
		"root/Other/o.exe",
	})
	if len(got) != 2 {
		t.Fatalf("期望 2 组，实际 %d", len(got))
	}
	tagged := -1
	for i := range got {
		if got[i].RootName == "【RPG汉化】MyGame" {
			tagged = i
			break
		}
	}
	if tagged < 0 {
		t.Fatalf("未找到以第一级为根的分组：%+v", got)
	}
	g := got[tagged]
	if g.RootPath != "root/【RPG汉化】MyGame" {
		t.Errorf("RootPath=%q", g.RootPath)
	}
	if len(g.ChildPaths) != 1 || g.ChildPaths[0] != "Windows/game.exe" {
		t.Errorf("ChildPaths=%v，期望 [Windows/game.exe]", g.ChildPaths)
	}
}

func TestGroup_BracketTagPromotesSecondLevel(t *testing.T) {
	// 第一级带标签且第二级不是平台名：根下移到第二级。
	got := Group([]string{
		"root/【RPG汉化】Wrapper/MyGame v1.2/game.exe",
		"root/Other/o.exe",
	})
	var promoted bool
	for _, g := range got {
		if g.RootName == "MyGame v1.2" {
			promoted = true
			if g.RootPath != "root/【RPG汉化】Wrapper/MyGame v1.2" {
				t.Errorf("RootPath=%q", g.RootPath)
			}
			if g.Version != "1.2" {
				t.Errorf("Version=%q，期望 1.2", g.Version)
			}
			if g.SearchKey != "MyGame" {
				t.Errorf("SearchKey=%q，期望 MyGame", g.SearchKey)
			}
		}
	}
	if !promoted {
		t.Fatalf("根目录未下移到第二级：%+v", got)
	}
}

func TestGroup_SearchKeyAndVersion(t *testing.T) {
	got := Group([]string{
		"root/【RPG汉化】MyGame v1.2b/game.exe",
		"root/Other/o.exe",
	})
	for _, g := range got {
		if g.RootName != "【RPG汉化】MyGame v1.2b" {
			continue
		}
		if g.Version != "1.2" {
			t.Errorf("Version=%q，期望 1.2", g.Version)
		}
		if g.SearchKey != "MyGame" {
			t.Errorf("SearchKey=%q，期望 MyGame", g.SearchKey)
		}
		return
	}
	t.Fatalf("未找到目标分组：%+v", got)
}

func TestGroupUnder_ExplicitRoot(t *testing.T) {
	// 已知扫描根时，多个游戏同库不会被吞并为一组。
	got := GroupUnder("C:/Games", []string{
		"C:/Games/GameA/a.exe",
		"C:/Games/GameB/bin/b.exe",
	})
	if len(got) != 2 {
		t.Fatalf("期望 2 组，实际 %d", len(got))
	}
	if got[0].RootPath != "C:/Games/GameA" || got[1].RootPath != "C:/Games/GameB" {
		t.Errorf("分组根错误：%q, %q", got[0].RootPath, got[1].RootPath)
	}
	if got[1].ChildPaths[0] != "bin/b.exe" {
		t.Errorf("ChildPaths=%v", got[1].ChildPaths)
	}
}

func TestGroupUnder_PathOutsideRootDropped(t *testing.T) {
	got := GroupUnder("C:/Games", []string{
		"C:/Games/GameA/a.exe",
		"short.exe",
	})
	if len(got) != 1 {
		t.Fatalf("期望 1 组，实际 %d", len(got))
	}
}

func TestCommonParentLen(t *testing.T) {
	paths := [][]string{
		{"C:", "Games", "Game1", "game.exe"},
		{"C:", "Games", "Game1", "data", "game.exe"},
	}
	if got := commonParentLen(paths); got != 3 {
		t.Errorf("commonParentLen=%d，期望 3", got)
	}

	paths = [][]string{
		{"C:", "Games", "Game1", "game.exe"},
		{"C:", "Games", "Game2", "game.exe"},
	}
	if got := commonParentLen(paths); got != 2 {
		t.Errorf("commonParentLen=%d，期望 2", got)
	}
}

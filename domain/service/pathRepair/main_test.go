package pathRepair

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/t-kuni/resfix/domain/model/failure"
	"github.com/t-kuni/resfix/domain/model/reference"
	"github.com/t-kuni/resfix/domain/repository/config"
	"github.com/t-kuni/resfix/domain/repository/file"
	"github.com/t-kuni/resfix/domain/service/backup"
	"github.com/t-kuni/resfix/domain/service/projectScan"
	"github.com/t-kuni/resfix/domain/service/resourceLocate"
	"github.com/t-kuni/resfix/domain/system/ksuid"
	"github.com/t-kuni/resfix/domain/system/timer"
	fileRepo "github.com/t-kuni/resfix/infrastructure/repository/file"
	"github.com/t-kuni/resfix/testUtil"
	"go.uber.org/mock/gomock"
)

func TestRepair(t *testing.T) {
	rules := reference.DefaultRules()
	sceneRule, _ := rules.Lookup(".tscn")
	importRule, _ := rules.Lookup(".glb.import")
	defaultOpts := Options{AtomicWrite: true, TieBreak: config.TieBreakFirst}

	newService := func(mockCtrl *gomock.Controller, repo file.Repository) *PathRepairService {
		mockKsuid := ksuid.NewMockIKsuid(mockCtrl)
		mockKsuid.EXPECT().New().Return("RUN1").AnyTimes()
		mockTimer := timer.NewMockITimer(mockCtrl)
		mockTimer.EXPECT().Now().Return(testUtil.NewTime("2024-01-01T00:00:00Z")).AnyTimes()

		locate := resourceLocate.NewResourceLocateService(projectScan.NewProjectScanService(repo))
		return NewPathRepairService(repo, locate, backup.NewBackupService(repo, mockKsuid, mockTimer))
	}

	t.Run("移動されたファイルへの参照を新しいパスに書き換えること", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		space := testUtil.BeginTestSpace(t)
		defer space.CleanUp()

		space.WriteFile("models/ship/model.glb", []byte(""))
		space.WriteFile("main.tscn", []byte(`[gd_scene load_steps=2 format=3]

[ext_resource type="PackedScene" path="res://old/path/model.glb" id="1_a"]

[node name="Main" type="Node3D"]
`))

		result, err := newService(mockCtrl, fileRepo.NewFileRepository()).
			Repair(space.Dir, filepath.Join(space.Dir, "main.tscn"), sceneRule, defaultOpts)
		assert.NoError(t, err)

		assert.Equal(t, []Replacement{{Old: "res://old/path/model.glb", New: "res://models/ship/model.glb"}}, result.Replacements)
		assert.Empty(t, result.Unresolved)
		space.AssertFile("main.tscn", func(actual []byte) {
			assert.Equal(t, `[gd_scene load_steps=2 format=3]

[ext_resource type="PackedScene" path="res://models/ship/model.glb" id="1_a"]

[node name="Main" type="Node3D"]
`, string(actual))
		})
	})

	t.Run("importファイルのsave_to_file/pathを書き換えること", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		space := testUtil.BeginTestSpace(t)
		defer space.CleanUp()

		space.WriteFile("meshes/y.glb", []byte(""))
		space.WriteFile("ship.glb.import", []byte(`"save_to_file/path": "res://old/y.glb"`))

		result, err := newService(mockCtrl, fileRepo.NewFileRepository()).
			Repair(space.Dir, filepath.Join(space.Dir, "ship.glb.import"), importRule, defaultOpts)
		assert.NoError(t, err)

		assert.Len(t, result.Replacements, 1)
		space.AssertFile("ship.glb.import", func(actual []byte) {
			assert.Equal(t, `"save_to_file/path": "res://meshes/y.glb"`, string(actual))
		})
	})

	t.Run("見つからない参照はそのまま残し診断を返すこと", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		space := testUtil.BeginTestSpace(t)
		defer space.CleanUp()

		original := `[ext_resource type="Texture2D" path="res://gone/icon.png" id="1_a"]`
		space.WriteFile("main.tscn", []byte(original))

		result, err := newService(mockCtrl, fileRepo.NewFileRepository()).
			Repair(space.Dir, filepath.Join(space.Dir, "main.tscn"), sceneRule, defaultOpts)
		assert.NoError(t, err)

		assert.Empty(t, result.Replacements)
		assert.Equal(t, []failure.UnresolvedReference{{File: "main.tscn", Missing: "icon.png"}}, result.Unresolved)
		assert.False(t, result.Changed())
		space.AssertFile("main.tscn", func(actual []byte) {
			assert.Equal(t, original, string(actual))
		})
	})

	t.Run("壊れた参照N件のうち解決できるM件だけを書き換えること", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		space := testUtil.BeginTestSpace(t)
		defer space.CleanUp()

		space.WriteFile("art/a.png", []byte(""))
		space.WriteFile("art/b.png", []byte(""))
		space.WriteFile("ok.png", []byte(""))
		space.WriteFile("main.tscn", []byte(`[ext_resource path="res://old/a.png" id="1"]
[ext_resource path="res://old/b.png" id="2"]
[ext_resource path="res://old/c.png" id="3"]
[ext_resource path="res://old/d.png" id="4"]
[ext_resource path="res://ok.png" id="5"]
`))

		result, err := newService(mockCtrl, fileRepo.NewFileRepository()).
			Repair(space.Dir, filepath.Join(space.Dir, "main.tscn"), sceneRule, defaultOpts)
		assert.NoError(t, err)

		assert.Len(t, result.Replacements, 2)
		assert.Equal(t, []failure.UnresolvedReference{
			{File: "main.tscn", Missing: "c.png"},
			{File: "main.tscn", Missing: "d.png"},
		}, result.Unresolved)
		space.AssertFile("main.tscn", func(actual []byte) {
			assert.Equal(t, `[ext_resource path="res://art/a.png" id="1"]
[ext_resource path="res://art/b.png" id="2"]
[ext_resource path="res://old/c.png" id="3"]
[ext_resource path="res://old/d.png" id="4"]
[ext_resource path="res://ok.png" id="5"]
`, string(actual))
		})
	})

	t.Run("前の置換で書き換わった参照は置換件数に数えないこと", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		space := testUtil.BeginTestSpace(t)
		defer space.CleanUp()

		space.WriteFile("art/a.png", []byte(""))
		space.WriteFile("art/a.png.bak", []byte(""))
		space.WriteFile("main.tscn", []byte(`[ext_resource path="res://old/a.png" id="1"]
[ext_resource path="res://old/a.png.bak" id="2"]
`))

		result, err := newService(mockCtrl, fileRepo.NewFileRepository()).
			Repair(space.Dir, filepath.Join(space.Dir, "main.tscn"), sceneRule, defaultOpts)
		assert.NoError(t, err)

		assert.Equal(t, []Replacement{{Old: "res://old/a.png", New: "res://art/a.png"}}, result.Replacements)
		assert.Empty(t, result.Unresolved)
		space.AssertFile("main.tscn", func(actual []byte) {
			assert.Equal(t, `[ext_resource path="res://art/a.png" id="1"]
[ext_resource path="res://art/a.png.bak" id="2"]
`, string(actual))
		})
	})

	t.Run("2回実行しても結果が変わらないこと", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		space := testUtil.BeginTestSpace(t)
		defer space.CleanUp()

		space.WriteFile("art/a.png", []byte(""))
		space.WriteFile("main.tscn", []byte(`[ext_resource path="res://old/a.png" id="1"]
[ext_resource path="res://old/missing.png" id="2"]
`))
		s := newService(mockCtrl, fileRepo.NewFileRepository())
		path := filepath.Join(space.Dir, "main.tscn")

		_, err := s.Repair(space.Dir, path, sceneRule, defaultOpts)
		assert.NoError(t, err)
		first := space.ReadFile("main.tscn")

		result, err := s.Repair(space.Dir, path, sceneRule, defaultOpts)
		assert.NoError(t, err)
		assert.Empty(t, result.Replacements)
		assert.Equal(t, first, space.ReadFile("main.tscn"))
	})

	t.Run("同名ファイルが複数あればfirstでは走査順の最初を使うこと", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		space := testUtil.BeginTestSpace(t)
		defer space.CleanUp()

		space.WriteFile("b/icon.png", []byte(""))
		space.WriteFile("a/icon.png", []byte(""))
		space.WriteFile("main.tscn", []byte(`[ext_resource path="res://old/icon.png" id="1"]`))

		result, err := newService(mockCtrl, fileRepo.NewFileRepository()).
			Repair(space.Dir, filepath.Join(space.Dir, "main.tscn"), sceneRule, defaultOpts)
		assert.NoError(t, err)

		assert.Equal(t, []Replacement{{Old: "res://old/icon.png", New: "res://a/icon.png"}}, result.Replacements)
	})

	t.Run("同名ファイルが複数あればskipでは書き換えず診断を返すこと", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		space := testUtil.BeginTestSpace(t)
		defer space.CleanUp()

		space.WriteFile("b/icon.png", []byte(""))
		space.WriteFile("a/icon.png", []byte(""))
		space.WriteFile("main.tscn", []byte(`[ext_resource path="res://old/icon.png" id="1"]`))

		opts := defaultOpts
		opts.TieBreak = config.TieBreakSkip
		result, err := newService(mockCtrl, fileRepo.NewFileRepository()).
			Repair(space.Dir, filepath.Join(space.Dir, "main.tscn"), sceneRule, opts)
		assert.NoError(t, err)

		assert.Empty(t, result.Replacements)
		assert.Equal(t, []failure.UnresolvedReference{{
			File:       "main.tscn",
			Missing:    "icon.png",
			Candidates: []string{"res://a/icon.png", "res://b/icon.png"},
		}}, result.Unresolved)
	})

	t.Run("uid://などres://以外の参照は対象外であること", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		space := testUtil.BeginTestSpace(t)
		defer space.CleanUp()

		space.WriteFile("main.tscn", []byte(`[ext_resource path="uid://abc" id="1"]`))

		result, err := newService(mockCtrl, fileRepo.NewFileRepository()).
			Repair(space.Dir, filepath.Join(space.Dir, "main.tscn"), sceneRule, defaultOpts)
		assert.NoError(t, err)
		assert.Empty(t, result.Replacements)
		assert.Empty(t, result.Unresolved)
	})

	t.Run("DryRunではファイルを書き換えないこと", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		space := testUtil.BeginTestSpace(t)
		defer space.CleanUp()

		original := `[ext_resource path="res://old/a.png" id="1"]`
		space.WriteFile("art/a.png", []byte(""))
		space.WriteFile("main.tscn", []byte(original))

		opts := defaultOpts
		opts.DryRun = true
		result, err := newService(mockCtrl, fileRepo.NewFileRepository()).
			Repair(space.Dir, filepath.Join(space.Dir, "main.tscn"), sceneRule, opts)
		assert.NoError(t, err)

		assert.True(t, result.Changed())
		assert.Equal(t, `[ext_resource path="res://art/a.png" id="1"]`, result.Updated)
		assert.Equal(t, original, space.ReadFile("main.tscn"))
	})

	t.Run("Backupが有効なら書き換え前の内容を保存すること", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		space := testUtil.BeginTestSpace(t)
		defer space.CleanUp()

		original := `[ext_resource path="res://old/a.png" id="1"]`
		space.WriteFile("art/a.png", []byte(""))
		space.WriteFile("scenes/main.tscn", []byte(original))

		opts := defaultOpts
		opts.Backup = true
		_, err := newService(mockCtrl, fileRepo.NewFileRepository()).
			Repair(space.Dir, filepath.Join(space.Dir, "scenes", "main.tscn"), sceneRule, opts)
		assert.NoError(t, err)

		space.AssertFile(".resfix/backup/RUN1/scenes/main.tscn", func(actual []byte) {
			assert.Equal(t, original, string(actual))
		})
	})

	t.Run("読み込みに失敗したらIoErrorを返すこと", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		mockFileRepo := file.NewMockRepository(mockCtrl)
		mockFileRepo.EXPECT().Read("/p/main.tscn").Return(nil, errors.New("permission denied"))

		_, err := newService(mockCtrl, mockFileRepo).Repair("/p", "/p/main.tscn", sceneRule, defaultOpts)
		assert.True(t, failure.IsIo(err))
	})

	t.Run("書き込みに失敗したらIoErrorを返すこと", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		content := []byte(`[ext_resource path="res://ok.png" id="1"]`)
		mockFileRepo := file.NewMockRepository(mockCtrl)
		mockFileRepo.EXPECT().Read("/p/main.tscn").Return(content, nil)
		mockFileRepo.EXPECT().Exists(filepath.Join("/p", "ok.png")).Return(true)
		mockFileRepo.EXPECT().WriteAtomic("/p/main.tscn", content).Return(errors.New("read-only file system"))

		_, err := newService(mockCtrl, mockFileRepo).Repair("/p", "/p/main.tscn", sceneRule, defaultOpts)
		assert.True(t, failure.IsIo(err))
	})

	t.Run("AtomicWriteが無効なら通常の書き込みを使うこと", func(t *testing.T) {
		mockCtrl := gomock.NewController(t)
		defer mockCtrl.Finish()

		content := []byte(`no references`)
		mockFileRepo := file.NewMockRepository(mockCtrl)
		mockFileRepo.EXPECT().Read("/p/main.tscn").Return(content, nil)
		mockFileRepo.EXPECT().Write("/p/main.tscn", content).Return(nil)

		opts := defaultOpts
		opts.AtomicWrite = false
		result, err := newService(mockCtrl, mockFileRepo).Repair("/p", "/p/main.tscn", sceneRule, opts)
		assert.NoError(t, err)
		assert.False(t, result.Changed())
	})
}

package tui

import (
	"time"

	"github.com/rs/zerolog"

	"ccm/config/models"
)

// Store loads and persists the profile document
type Store interface {
	Load() (*models.Document, bool, error)
	Save(doc *models.Document) (*models.Document, error)
}

// SettingsSyncer mirrors a profile into the Claude CLI settings file
type SettingsSyncer interface {
	Sync(p models.Profile) error
	Preview(p models.Profile) models.EnvVars
	CurrentEnv() (models.EnvVars, bool, error)
}

// SettingsImporter builds a profile from the current settings file
type SettingsImporter interface {
	ImportFromSettings(name string) (*models.Profile, error)
}

// Deps are the collaborators of a Session
type Deps struct {
	Store    Store
	Syncer   SettingsSyncer
	Importer SettingsImporter
	Prompter Prompter
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Session is one interactive run. It holds the last persisted snapshot of the
// profile document; workflows mutate a clone and adopt what Save returns.
type Session struct {
	store    Store
	syncer   SettingsSyncer
	importer SettingsImporter
	prompter Prompter
	doc      *models.Document
	now      func() time.Time
	log      zerolog.Logger
}

// NewSession creates a Session from deps
func NewSession(deps Deps) *Session {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		store:    deps.Store,
		syncer:   deps.Syncer,
		importer: deps.Importer,
		prompter: deps.Prompter,
		doc:      models.NewDocument(),
		now:      now,
		log:      deps.Logger.With().Str("component", "session").Logger(),
	}
}

// Document returns the current snapshot
func (s *Session) Document() *models.Document {
	return s.doc
}

type menuAction int

const (
	actionList menuAction = iota
	actionAdd
	actionEdit
	actionRemove
	actionActivate
	actionStatus
	actionSync
	actionExit
)

var mainMenu = []Choice[menuAction]{
	{Option{"查看配置列表", "浏览所有 profiles 与 active 状态", ToneCyan}, actionList},
	{Option{"新增配置", "创建 provider/model/key 组合", ToneGreen}, actionAdd},
	{Option{"修改配置", "更新已有配置字段", ToneYellow}, actionEdit},
	{Option{"删除配置", "删除配置并处理 active", ToneRed}, actionRemove},
	{Option{"切换生效配置", "激活并同步 settings.env", ToneCyan}, actionActivate},
	{Option{"查看当前生效详情", "预览 active profile 与写入 env", ToneWhite}, actionStatus},
	{Option{"重新同步", "按 active 重新写入 settings.json", ToneCyan}, actionSync},
	{Option{"退出", "关闭 ccm", ToneRed}, actionExit},
}

// Run loads the store, offers the first-run import when the store was just
// created, then loops on the main menu until the user exits.
func (s *Session) Run() error {
	doc, created, err := s.store.Load()
	if err != nil {
		return err
	}
	s.doc = doc
	s.log.Info().Bool("created", created).Int("profiles", len(doc.Profiles)).Msg("session started")

	if created {
		if err := s.FirstRun(); err != nil {
			return err
		}
	}

	cursor := 0
	for {
		r, err := Choose(s.prompter, "主菜单", s.menuDescription(), mainMenu, cursor)
		if err != nil {
			return err
		}
		if !r.OK() || r.Value == actionExit {
			s.log.Info().Msg("session ended")
			return nil
		}
		cursor = int(r.Value)

		if err := s.dispatch(r.Value); err != nil {
			return err
		}
	}
}

func (s *Session) dispatch(action menuAction) error {
	switch action {
	case actionList:
		return s.ListProfiles()
	case actionAdd:
		return s.AddProfile()
	case actionEdit:
		return s.EditProfile()
	case actionRemove:
		return s.RemoveProfile()
	case actionActivate:
		return s.ActivateProfile()
	case actionStatus:
		return s.ShowStatus()
	case actionSync:
		return s.SyncActive()
	}
	return nil
}

func (s *Session) menuDescription() string {
	if active, ok := s.doc.Active(); ok {
		return "当前生效: " + active.Name + " (" + active.ProviderName + ")"
	}
	return "当前没有生效配置"
}

// commit persists next and adopts the normalized result as the snapshot.
func (s *Session) commit(next *models.Document) error {
	saved, err := s.store.Save(next)
	if err != nil {
		return err
	}
	s.doc = saved
	return nil
}

// sync writes the snapshot's copy of the profile with id to the settings file.
func (s *Session) sync(id string) (models.Profile, error) {
	p, ok := s.doc.Find(id)
	if !ok {
		return models.Profile{}, nil
	}
	if err := s.syncer.Sync(p); err != nil {
		return p, err
	}
	return p, nil
}

func (s *Session) notify(level NoticeLevel, title string, lines ...string) error {
	return s.prompter.Notice(Notice{Title: title, Lines: lines, Level: level})
}

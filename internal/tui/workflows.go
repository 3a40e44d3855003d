package tui

import (
	"fmt"

	"ccm/config/models"
)

// Model names offered when a profile has none yet
const (
	defaultHaikuModel  = "claude-3-5-haiku-latest"
	defaultSonnetModel = "claude-3-7-sonnet-latest"
	defaultOpusModel   = "claude-3-opus-latest"

	defaultImportName = "imported-default"
)

// ListProfiles shows every profile with its provider, mode and active flag.
func (s *Session) ListProfiles() error {
	return s.prompter.Page(Page{
		Title:    "配置列表",
		Subtitle: "结构化查看 profiles",
		Lines:    profileTableLines(s.doc),
	})
}

// profileDraft holds the fields collected by the add and edit workflows
type profileDraft struct {
	name     string
	provider string
	baseURL  string
	apiKey   string
	mode     models.ModelMode
	extraEnv models.EnvVars
}

// AddProfile collects a new profile, saves it, then offers to activate it.
func (s *Session) AddProfile() error {
	r, err := s.askProfile(nil)
	if err != nil || !r.OK() {
		return err
	}
	draft := r.Value

	now := s.now().UTC()
	profile := models.Profile{
		ID:           models.NewProfileID(),
		Name:         draft.name,
		ProviderName: draft.provider,
		BaseURL:      draft.baseURL,
		APIKey:       draft.apiKey,
		Mode:         draft.mode,
		ExtraEnv:     draft.extraEnv,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	next := s.doc.Clone()
	next.Profiles = append(next.Profiles, profile)
	if err := s.commit(next); err != nil {
		return err
	}
	s.log.Info().Str("profile", profile.ID).Str("mode", string(profile.ModeKind())).Msg("profile added")

	activate, err := Confirm(s.prompter, "配置已保存", "是否立即激活并写入 ~/.claude/settings.json ?",
		Option{"立即激活", "设置 active 并同步 settings", ToneGreen},
		Option{"稍后激活", "仅保存配置，不修改 settings", ToneYellow},
	)
	if err != nil {
		return err
	}
	if !activate {
		return s.notify(NoticeSuccess, "新增完成", "已新增配置: "+profile.Name)
	}

	if err := s.activate(profile.ID); err != nil {
		return err
	}
	return s.notify(NoticeSuccess, "新增完成", "已新增并激活: "+profile.Name)
}

// EditProfile rewrites an existing profile. Base URL and API key accept "-"
// to clear them. When the edited profile is active it offers to sync.
func (s *Session) EditProfile() error {
	if len(s.doc.Profiles) == 0 {
		return s.notify(NoticeWarning, "无法修改", "当前没有可修改配置。")
	}

	picked, err := s.pickProfile("请选择要修改的配置")
	if err != nil || !picked.OK() {
		return err
	}
	current := picked.Value

	r, err := s.askProfile(&current)
	if err != nil || !r.OK() {
		return err
	}
	draft := r.Value

	updated := current.Clone()
	updated.Name = draft.name
	updated.ProviderName = draft.provider
	updated.BaseURL = draft.baseURL
	updated.APIKey = draft.apiKey
	updated.Mode = draft.mode
	updated.ExtraEnv = draft.extraEnv
	updated.UpdatedAt = s.now().UTC()

	next := s.doc.Clone()
	i := next.Index(current.ID)
	if i < 0 {
		return s.notify(NoticeError, "无法修改", "配置已不存在。")
	}
	next.Profiles[i] = updated
	if err := s.commit(next); err != nil {
		return err
	}
	s.log.Info().Str("profile", updated.ID).Msg("profile updated")

	if s.doc.ActiveID() == updated.ID {
		syncNow, err := Confirm(s.prompter, "当前是生效配置", "是否立即同步修改到 ~/.claude/settings.json ?",
			Option{"立即同步", "将新字段写入 settings.env", ToneGreen},
			Option{"稍后手动同步", "仅保存 profile", ToneYellow},
		)
		if err != nil {
			return err
		}
		if syncNow {
			if _, err := s.sync(updated.ID); err != nil {
				return err
			}
		}
	}

	return s.notify(NoticeSuccess, "修改完成", "已更新配置: "+updated.Name)
}

// RemoveProfile deletes a profile after confirmation, clearing the active
// pointer if it referenced it.
func (s *Session) RemoveProfile() error {
	if len(s.doc.Profiles) == 0 {
		return s.notify(NoticeWarning, "无法删除", "当前没有可删除配置。")
	}

	picked, err := s.pickProfile("请选择要删除的配置")
	if err != nil || !picked.OK() {
		return err
	}
	target := picked.Value

	confirmed, err := Confirm(s.prompter, "确认删除", fmt.Sprintf("确定删除 %q 吗？", target.Name),
		Option{"确认删除", "执行删除", ToneRed},
		Option{"取消", "返回主菜单", ToneYellow},
	)
	if err != nil || !confirmed {
		return err
	}

	next := s.doc.Clone()
	next.Remove(target.ID)
	if err := s.commit(next); err != nil {
		return err
	}
	s.log.Info().Str("profile", target.ID).Msg("profile removed")
	return s.notify(NoticeSuccess, "删除完成", "已删除配置: "+target.Name)
}

// ActivateProfile makes a profile active and syncs it.
func (s *Session) ActivateProfile() error {
	if len(s.doc.Profiles) == 0 {
		return s.notify(NoticeWarning, "无法激活", "当前没有可激活配置。")
	}

	picked, err := s.pickProfile("请选择要激活的配置")
	if err != nil || !picked.OK() {
		return err
	}

	if err := s.activate(picked.Value.ID); err != nil {
		return err
	}
	return s.notify(NoticeSuccess, "激活成功", "当前生效: "+picked.Value.Name)
}

// ShowStatus shows the active profile, the env it derives and whether the
// settings file currently holds that env.
func (s *Session) ShowStatus() error {
	page := Page{Title: "当前生效详情", Subtitle: "active profile 以及将写入 settings 的 env"}

	active, ok := s.doc.Active()
	if !ok {
		page.Lines = []string{warningStyle.Render("当前没有生效配置。")}
		return s.prompter.Page(page)
	}

	disk, onDisk, diskErr := s.syncer.CurrentEnv()
	page.Lines = statusLines(active, s.syncer.Preview(active), disk, onDisk, diskErr)
	return s.prompter.Page(page)
}

// SyncActive rewrites the settings env from the active profile.
func (s *Session) SyncActive() error {
	active, ok := s.doc.Active()
	if !ok {
		return s.notify(NoticeWarning, "无法同步", "当前没有 active profile。")
	}
	if _, err := s.sync(active.ID); err != nil {
		return err
	}
	return s.notify(NoticeSuccess, "同步成功", "已按 active profile 写入 settings: "+active.Name)
}

// FirstRun offers to import the current settings env as the first profile.
func (s *Session) FirstRun() error {
	r, err := Choose(s.prompter, "导入初始化配置", "是否从当前 ~/.claude/settings.json 导入一个初始 profile？",
		[]Choice[bool]{
			{Option{"导入并设为生效", "读取现有 env 并创建 active profile", ToneGreen}, true},
			{Option{"跳过导入", "仅创建空的 profiles 仓库", ToneYellow}, false},
		}, 0)
	if err != nil || !r.OK() || !r.Value {
		return err
	}

	name, err := AskText(s.prompter, TextStep{
		Title:       "导入配置名称",
		Description: "用于标识这份导入配置，例如 imported-default",
		Default:     defaultImportName,
		Required:    true,
	})
	if err != nil || !name.OK() {
		return err
	}

	imported, err := s.importer.ImportFromSettings(name.Value)
	if err != nil {
		return err
	}
	if imported == nil {
		return s.notify(NoticeWarning, "未导入", "未检测到可导入的 env，已跳过。")
	}

	next := s.doc.Clone()
	next.Profiles = append(next.Profiles, *imported)
	next.SetActive(imported.ID)
	if err := s.commit(next); err != nil {
		return err
	}
	if _, err := s.sync(imported.ID); err != nil {
		return err
	}
	s.log.Info().Str("profile", imported.ID).Str("mode", string(imported.ModeKind())).Msg("imported profile from settings")
	return s.notify(NoticeSuccess, "导入成功", "已导入并激活: "+imported.Name)
}

// activate points the store at id, saves, and syncs the profile.
func (s *Session) activate(id string) error {
	next := s.doc.Clone()
	next.SetActive(id)
	if err := s.commit(next); err != nil {
		return err
	}
	p, err := s.sync(id)
	if err != nil {
		return err
	}
	s.log.Info().Str("profile", p.ID).Msg("profile activated")
	return nil
}

func (s *Session) pickProfile(title string) (Result[models.Profile], error) {
	choices := make([]Choice[models.Profile], len(s.doc.Profiles))
	cursor := 0
	for i, opt := range profileOptions(s.doc) {
		choices[i] = Choice[models.Profile]{Option: opt, Value: s.doc.Profiles[i]}
		if s.doc.Profiles[i].ID == s.doc.ActiveID() {
			cursor = i
		}
	}
	return Choose(s.prompter, title, "每个选项包含 provider 和 model mode", choices, cursor)
}

// askProfile runs the shared field steps. source is nil when adding.
func (s *Session) askProfile(source *models.Profile) (Result[profileDraft], error) {
	editing := source != nil
	if !editing {
		source = &models.Profile{ProviderName: models.DefaultProviderName, Mode: models.SonnetOnly{}}
	}
	back := Back[profileDraft]()

	nameHint, urlHint := "例如: glm-prod / openrouter-main", "可留空，例如 https://open.bigmodel.cn/api/anthropic"
	keyHint := "可留空；将写入 ANTHROPIC_AUTH_TOKEN"
	if editing {
		nameHint = "回车确认，Esc 返回"
		urlHint = "输入 - 清空，或直接回车保持默认"
		keyHint = urlHint
	}

	name, err := AskText(s.prompter, TextStep{Title: "配置名", Description: nameHint, Default: source.Name, Required: true})
	if err != nil || !name.OK() {
		return back, err
	}

	provider, err := AskText(s.prompter, TextStep{
		Title:       "服务商名称",
		Description: "例如: zhipu / openrouter / custom",
		Default:     source.ProviderName,
		Required:    true,
	})
	if err != nil || !provider.OK() {
		return back, err
	}

	baseURL, err := AskText(s.prompter, TextStep{Title: "Base URL", Description: urlHint, Default: source.BaseURL, AllowClear: editing})
	if err != nil || !baseURL.OK() {
		return back, err
	}

	apiKey, err := AskText(s.prompter, TextStep{
		Title:       "API Key",
		Description: keyHint,
		Default:     source.APIKey,
		Secret:      true,
		AllowClear:  editing,
	})
	if err != nil || !apiKey.OK() {
		return back, err
	}

	kind, err := s.askModeKind(source.ModeKind())
	if err != nil || !kind.OK() {
		return back, err
	}

	mode, err := s.askModels(kind.Value, source.Mode)
	if err != nil || !mode.OK() {
		return back, err
	}

	extraEnv, err := s.askExtraEnv(source.ExtraEnv)
	if err != nil || !extraEnv.OK() {
		return back, err
	}

	return Ok(profileDraft{
		name:     name.Value,
		provider: provider.Value,
		baseURL:  baseURL.Value,
		apiKey:   apiKey.Value,
		mode:     mode.Value,
		extraEnv: extraEnv.Value,
	}), nil
}

var modeDescriptions = map[models.ModeKind]Option{
	models.ModeNone:       {Description: "不写默认模型变量", Tone: ToneYellow},
	models.ModeSonnetOnly: {Description: "仅写 SONNET", Tone: ToneGreen},
	models.ModeAllSame:    {Description: "三模型写同一值", Tone: ToneCyan},
	models.ModeSplitThree: {Description: "三模型分别设置", Tone: ToneWhite},
}

func (s *Session) askModeKind(current models.ModeKind) (Result[models.ModeKind], error) {
	choices := make([]Choice[models.ModeKind], len(models.ModeKinds))
	cursor := 0
	for i, kind := range models.ModeKinds {
		opt := modeDescriptions[kind]
		opt.Label = string(kind)
		if kind == current {
			opt.Label += " [当前]"
			cursor = i
		}
		choices[i] = Choice[models.ModeKind]{Option: opt, Value: kind}
	}
	return Choose(s.prompter, "模型模式", "选择默认模型映射策略", choices, cursor)
}

// askModels collects the model names kind needs, defaulting to what source
// currently exports.
func (s *Session) askModels(kind models.ModeKind, source models.ModelMode) (Result[models.ModelMode], error) {
	haiku, sonnet, opus := models.EffectiveModels(source)
	ask := func(title, description, current, fallback string) (Result[string], error) {
		if current == "" {
			current = fallback
		}
		return AskText(s.prompter, TextStep{Title: title, Description: description, Default: current, Required: true})
	}
	back := Back[models.ModelMode]()

	switch kind {
	case models.ModeNone:
		return Ok[models.ModelMode](models.NoModels{}), nil

	case models.ModeSonnetOnly:
		r, err := ask("Sonnet 模型", "例如 "+defaultSonnetModel, sonnet, defaultSonnetModel)
		if err != nil || !r.OK() {
			return back, err
		}
		return Ok[models.ModelMode](models.SonnetOnly{Sonnet: r.Value}), nil

	case models.ModeAllSame:
		r, err := ask("统一模型名", "该值将写入 HAIKU/SONNET/OPUS", sonnet, defaultSonnetModel)
		if err != nil || !r.OK() {
			return back, err
		}
		return Ok[models.ModelMode](models.AllSame{Shared: r.Value}), nil
	}

	h, err := ask("Haiku 模型", "例如 "+defaultHaikuModel, haiku, defaultHaikuModel)
	if err != nil || !h.OK() {
		return back, err
	}
	so, err := ask("Sonnet 模型", "例如 "+defaultSonnetModel, sonnet, defaultSonnetModel)
	if err != nil || !so.OK() {
		return back, err
	}
	o, err := ask("Opus 模型", "例如 "+defaultOpusModel, opus, defaultOpusModel)
	if err != nil || !o.OK() {
		return back, err
	}
	return Ok[models.ModelMode](models.SplitThree{Haiku: h.Value, Sonnet: so.Value, Opus: o.Value}), nil
}

type envAction int

const (
	envKeep envAction = iota
	envRewrite
	envClear
)

// askExtraEnv keeps, clears or rebuilds extraEnv. Rebuilding loops key/value
// pairs until an empty key.
func (s *Session) askExtraEnv(initial models.EnvVars) (Result[models.EnvVars], error) {
	back := Back[models.EnvVars]()
	action, err := Choose(s.prompter, "extraEnv 设置", "额外环境变量处理策略", []Choice[envAction]{
		{Option{"保持当前", "保留 existing extraEnv", ToneCyan}, envKeep},
		{Option{"重新录入", "逐项输入并覆盖", ToneGreen}, envRewrite},
		{Option{"清空", "移除全部 extraEnv", ToneRed}, envClear},
	}, 0)
	if err != nil || !action.OK() {
		return back, err
	}

	switch action.Value {
	case envKeep:
		return Ok(initial.Clone()), nil
	case envClear:
		return Ok[models.EnvVars](nil), nil
	}

	var env models.EnvVars
	for {
		k, err := AskText(s.prompter, TextStep{Title: "Env 键名", Description: "留空结束录入"})
		if err != nil || !k.OK() {
			return back, err
		}
		if k.Value == "" {
			break
		}

		v, err := AskText(s.prompter, TextStep{
			Title:       fmt.Sprintf("值 (%s)", k.Value),
			Description: "按 Enter 保存该键值",
			Required:    true,
		})
		if err != nil || !v.OK() {
			return back, err
		}
		env.Set(k.Value, v.Value)
	}
	return Ok(env), nil
}

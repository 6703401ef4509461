package services

import (
	stderrors "errors"
	"time"

	"newshub/internal/models"
	"newshub/pkg/errors"

	"gorm.io/gorm"
)

type NewsService struct {
	db *gorm.DB
}

func NewNewsService(db *gorm.DB) *NewsService {
	return &NewsService{db: db}
}

// Action 工作流动作
type Action string

const (
	ActionSubmit  Action = "submit"  // 提交审核
	ActionApprove Action = "approve" // 审核通过
	ActionReject  Action = "reject"  // 驳回
	ActionRevert  Action = "revert"  // 驳回稿退回草稿
	ActionPublish Action = "publish" // 发布
	ActionSunset  Action = "sunset"  // 下线
)

// transitionRule 状态转换规则：from/to均为(auditState, publishState)状态对
type transitionRule struct {
	action Action
	from   [2]int8
	to     [2]int8
}

// 状态机唯一定义，不在表内的转换一律拒绝
var transitionTable = []transitionRule{
	{ActionSubmit, [2]int8{0, 0}, [2]int8{1, 0}},
	{ActionApprove, [2]int8{1, 0}, [2]int8{2, 1}},
	{ActionReject, [2]int8{1, 0}, [2]int8{3, 0}},
	{ActionRevert, [2]int8{3, 0}, [2]int8{0, 0}},
	{ActionPublish, [2]int8{2, 1}, [2]int8{2, 2}},
	{ActionSunset, [2]int8{2, 2}, [2]int8{2, 3}},
}

func lookupRule(action Action) (transitionRule, bool) {
	for _, rule := range transitionTable {
		if rule.action == action {
			return rule, true
		}
	}
	return transitionRule{}, false
}

// ResolveAction 将客户端PATCH的目标状态映射为工作流动作
// 旧版管理台只会PATCH auditState/publishState字段，不携带动作名
func ResolveAction(item *models.News, targetAudit *models.AuditState, targetPublish *models.PublishState) (Action, error) {
	if targetAudit == nil && targetPublish == nil {
		return "", errors.NewValidation("缺少状态字段")
	}
	cur := item.StatePair()
	for _, rule := range transitionTable {
		if rule.from != cur {
			continue
		}
		if targetAudit != nil && rule.to[0] != int8(*targetAudit) {
			continue
		}
		if targetPublish != nil && rule.to[1] != int8(*targetPublish) {
			continue
		}
		return rule.action, nil
	}
	return "", errors.NewInvalidTransition("当前状态不允许该转换")
}

// CreateDraft 创建草稿，作者用户名和角色以创建时为快照
func (s *NewsService) CreateDraft(actor *models.User, title, content string, categoryID uint) (*models.News, error) {
	if actor == nil {
		return nil, errors.NewUnauthorized("请先登录")
	}
	if title == "" {
		return nil, errors.NewValidation("标题不能为空")
	}

	var count int64
	s.db.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count)
	if count == 0 {
		return nil, errors.NewValidation("分类不存在")
	}

	item := &models.News{
		Title:        title,
		Content:      content,
		AuthorID:     actor.ID,
		Author:       actor.Username,
		RoleID:       actor.RoleID,
		CategoryID:   categoryID,
		AuditState:   models.AuditDraft,
		PublishState: models.PublishUnpublished,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Transition 执行一次工作流转换
// 整个转换在单个事务内完成；落库时用当前状态对做条件更新，
// 并发竞争下只有一个请求能命中，落空按非法转换处理，杜绝丢失更新
func (s *NewsService) Transition(actor *models.User, id uint, action Action, reason string) (*models.News, error) {
	if actor == nil {
		return nil, errors.NewUnauthorized("请先登录")
	}
	rule, ok := lookupRule(action)
	if !ok {
		return nil, errors.NewValidation("未知的工作流动作")
	}
	if action == ActionReject && reason == "" {
		return nil, errors.NewValidation("驳回必须填写原因")
	}

	var item models.News
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewNotFound("稿件不存在")
			}
			return err
		}

		if item.StatePair() != rule.from {
			return errors.NewInvalidTransition("当前状态不允许该转换")
		}

		if err := s.authorizeTransition(tx, actor, &item, action); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"audit_state":   rule.to[0],
			"publish_state": rule.to[1],
		}
		switch action {
		case ActionReject:
			updates["reject_reason"] = reason
		case ActionRevert:
			updates["reject_reason"] = ""
		case ActionPublish:
			// publishTime仅在发布转换时写入一次，之后不再变更
			updates["publish_time"] = time.Now()
		}

		result := tx.Model(&models.News{}).
			Where("id = ? AND audit_state = ? AND publish_state = ?", id, rule.from[0], rule.from[1]).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.NewInvalidTransition("当前状态不允许该转换")
		}

		return tx.First(&item, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// authorizeTransition 按动作检查操作者权限
func (s *NewsService) authorizeTransition(tx *gorm.DB, actor *models.User, item *models.News, action Action) error {
	switch action {
	case ActionSubmit, ActionRevert:
		if item.AuthorID != actor.ID {
			return errors.NewForbidden("只有作者可以执行该操作")
		}
		return nil
	case ActionApprove, ActionReject:
		var authorRole models.Role
		if err := tx.First(&authorRole, item.RoleID).Error; err != nil {
			return err
		}
		if !CanReview(actor, item, &authorRole) {
			return errors.NewForbidden("无权审核该稿件")
		}
		return nil
	case ActionPublish, ActionSunset:
		if !CanPublish(actor, item) {
			return errors.NewForbidden("无权发布或下线该稿件")
		}
		return nil
	default:
		return errors.NewValidation("未知的工作流动作")
	}
}

// NewsPatch 稿件内容部分更新字段
type NewsPatch struct {
	Title      *string
	Content    *string
	CategoryID *uint
}

// UpdateContent 更新稿件内容
// 稿件进入审核流程后作者即失去内容写权限，只有草稿和驳回稿可编辑。
// 落库只写内容列，且以读取到的状态对做条件更新：读写间隙被其他事务
// 转换过状态的稿件落空，按非法转换处理，不会把状态改写回旧值
func (s *NewsService) UpdateContent(actor *models.User, id uint, patch NewsPatch) (*models.News, error) {
	if actor == nil {
		return nil, errors.NewUnauthorized("请先登录")
	}

	var item models.News
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewNotFound("稿件不存在")
			}
			return err
		}

		if item.AuthorID != actor.ID {
			return errors.NewForbidden("只有作者可以编辑稿件")
		}
		editable := item.StatePair() == [2]int8{0, 0} || item.StatePair() == [2]int8{3, 0}
		if !editable {
			return errors.NewInvalidTransition("稿件已进入审核流程，不可编辑")
		}

		updates := map[string]interface{}{}
		if patch.Title != nil {
			if *patch.Title == "" {
				return errors.NewValidation("标题不能为空")
			}
			updates["title"] = *patch.Title
		}
		if patch.Content != nil {
			updates["content"] = *patch.Content
		}
		if patch.CategoryID != nil {
			var count int64
			tx.Model(&models.Category{}).Where("id = ?", *patch.CategoryID).Count(&count)
			if count == 0 {
				return errors.NewValidation("分类不存在")
			}
			updates["category_id"] = *patch.CategoryID
		}
		if len(updates) == 0 {
			return nil
		}

		result := tx.Model(&models.News{}).
			Where("id = ? AND audit_state = ? AND publish_state = ?",
				id, item.AuditState, item.PublishState).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errors.NewInvalidTransition("稿件已进入审核流程，不可编辑")
		}

		return tx.First(&item, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete 删除稿件
// 只有草稿（作者本人）和已下线稿件（作者或发布人）可被删除，
// 其余状态必须沿状态机流转，不允许原地删除
func (s *NewsService) Delete(actor *models.User, id uint) error {
	if actor == nil {
		return errors.NewUnauthorized("请先登录")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.News
		if err := tx.First(&item, id).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewNotFound("稿件不存在")
			}
			return err
		}

		switch item.StatePair() {
		case [2]int8{0, 0}:
			if item.AuthorID != actor.ID {
				return errors.NewForbidden("只有作者可以删除草稿")
			}
		case [2]int8{2, 3}:
			if !CanPublish(actor, &item) {
				return errors.NewForbidden("无权删除该稿件")
			}
		default:
			return errors.NewInvalidTransition("该状态下的稿件不可删除")
		}

		return tx.Delete(&models.News{}, id).Error
	})
}

// IncrementView 浏览数加一
// 原子UPDATE，仅对已发布稿件生效，避免读改写竞态
func (s *NewsService) IncrementView(id uint) error {
	return s.increment(id, "view")
}

// IncrementStar 点赞数加一
func (s *NewsService) IncrementStar(id uint) error {
	return s.increment(id, "star")
}

func (s *NewsService) increment(id uint, column string) error {
	result := s.db.Model(&models.News{}).
		Where("id = ? AND publish_state = ?", id, models.PublishPublished).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		s.db.Model(&models.News{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return errors.NewNotFound("稿件不存在")
		}
		return errors.NewInvalidTransition("仅已发布稿件可计数")
	}
	return nil
}

// NewsFilter 新闻列表过滤条件
type NewsFilter struct {
	Author       string
	AuditState   *models.AuditState
	PublishState *models.PublishState
	CategoryID   *uint
	SortField    string // 白名单内的排序字段
	SortOrder    string // asc 或 desc
	Limit        int    // 0表示不限制
	Expand       bool   // 是否内联分类
}

// 排序字段白名单，对外字段名映射到数据库列
var sortColumns = map[string]string{
	"id":          "id",
	"view":        "view",
	"star":        "star",
	"createTime":  "created_at",
	"publishTime": "publish_time",
}

// List 按请求者可见范围查询稿件
// 匿名访客只能看到已发布；作者可见自己的全部稿件；分类管理员额外可见
// 其有权审核的待审稿件和所辖分类内的待发布、已下线稿件。过滤在服务端统一收口
func (s *NewsService) List(requester *models.User, filter NewsFilter) ([]*models.News, error) {
	query := s.db.Model(&models.News{})

	visibility, err := s.visibilityScope(requester)
	if err != nil {
		return nil, err
	}
	if visibility != nil {
		query = query.Where(visibility)
	}

	if filter.Author != "" {
		query = query.Where("author = ?", filter.Author)
	}
	if filter.AuditState != nil {
		query = query.Where("audit_state = ?", *filter.AuditState)
	}
	if filter.PublishState != nil {
		query = query.Where("publish_state = ?", *filter.PublishState)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	if column, ok := sortColumns[filter.SortField]; ok {
		order := "asc"
		if filter.SortOrder == "desc" {
			order = "desc"
		}
		query = query.Order(column + " " + order)
	} else {
		query = query.Order("id desc")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Expand {
		query = query.Preload("Category")
	}

	var items []*models.News
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// visibilityScope 构造请求者的可见性条件，nil表示无限制
func (s *NewsService) visibilityScope(requester *models.User) (*gorm.DB, error) {
	if requester == nil || requester.Role == nil {
		return s.db.Where("publish_state = ?", models.PublishPublished), nil
	}

	switch requester.Role.Tier {
	case models.TierSuperAdmin:
		return nil, nil
	case models.TierCategoryManager:
		scope := s.db.Where("author_id = ?", requester.ID).
			Or("publish_state = ?", models.PublishPublished)
		allowed := requester.AllowedCategories()
		if len(allowed) > 0 {
			// 所辖分类内的待发布和已下线稿件：管理员是发布人，必须可见才能操作
			scope = scope.Or("publish_state IN ? AND category_id IN ?",
				[]models.PublishState{models.PublishReady, models.PublishSunset}, allowed)

			var editorRoleIDs []uint
			if err := s.db.Model(&models.Role{}).
				Where("tier = ?", models.TierEditor).
				Pluck("id", &editorRoleIDs).Error; err != nil {
				return nil, err
			}
			if len(editorRoleIDs) > 0 {
				scope = scope.Or("audit_state = ? AND role_id IN ? AND category_id IN ?",
					models.AuditPending, editorRoleIDs, allowed)
			}
		}
		return scope, nil
	case models.TierEditor:
		return s.db.Where("author_id = ?", requester.ID).
			Or("publish_state = ?", models.PublishPublished), nil
	default:
		// 未知层级按匿名处理
		return s.db.Where("publish_state = ?", models.PublishPublished), nil
	}
}

// GetByID 获取稿件详情，支持内联分类和作者角色
// 对无权查看的请求者按不存在处理，不暴露稿件存在性
func (s *NewsService) GetByID(requester *models.User, id uint, expandCategory, expandRole bool) (*models.News, error) {
	query := s.db
	if expandCategory {
		query = query.Preload("Category")
	}
	if expandRole {
		query = query.Preload("Role")
	}

	var item models.News
	if err := query.First(&item, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFound("稿件不存在")
		}
		return nil, err
	}

	if s.canSee(requester, &item) {
		return &item, nil
	}
	return nil, errors.NewNotFound("稿件不存在")
}

func (s *NewsService) canSee(requester *models.User, item *models.News) bool {
	if item.PublishState == models.PublishPublished {
		return true
	}
	if requester == nil || requester.Role == nil {
		return false
	}
	if requester.Role.Tier == models.TierSuperAdmin || item.AuthorID == requester.ID {
		return true
	}
	if requester.Role.Tier == models.TierCategoryManager &&
		requester.CanManageCategory(item.CategoryID) &&
		(item.PublishState == models.PublishReady || item.PublishState == models.PublishSunset) {
		return true
	}
	if item.AuditState == models.AuditPending {
		var authorRole models.Role
		if err := s.db.First(&authorRole, item.RoleID).Error; err != nil {
			return false
		}
		return CanReview(requester, item, &authorRole)
	}
	return false
}

// NewsStats 稿件状态分布统计
type NewsStats struct {
	Total     int64 `json:"total"`
	Draft     int64 `json:"draft"`
	Pending   int64 `json:"pending"`
	Rejected  int64 `json:"rejected"`
	Ready     int64 `json:"ready"`
	Published int64 `json:"published"`
	Sunset    int64 `json:"sunset"`
}

// GetStats 获取稿件状态分布
func (s *NewsService) GetStats() (*NewsStats, error) {
	stats := &NewsStats{}

	if err := s.db.Model(&models.News{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	byAudit := []struct {
		state models.AuditState
		dest  *int64
	}{
		{models.AuditDraft, &stats.Draft},
		{models.AuditPending, &stats.Pending},
		{models.AuditRejected, &stats.Rejected},
	}
	for _, item := range byAudit {
		if err := s.db.Model(&models.News{}).
			Where("audit_state = ?", item.state).Count(item.dest).Error; err != nil {
			return nil, err
		}
	}

	byPublish := []struct {
		state models.PublishState
		dest  *int64
	}{
		{models.PublishReady, &stats.Ready},
		{models.PublishPublished, &stats.Published},
		{models.PublishSunset, &stats.Sunset},
	}
	for _, item := range byPublish {
		if err := s.db.Model(&models.News{}).
			Where("publish_state = ?", item.state).Count(item.dest).Error; err != nil {
			return nil, err
		}
	}

	return stats, nil
}

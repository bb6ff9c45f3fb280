// Package request 提供求助请求的数据访问实现
package request

import (
	"carematch_server/internal/dao/mysql/internal"
	"carematch_server/internal/model"

	"gorm.io/gorm"
)

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository 创建 RequestRepository 实例
func NewRequestRepository(db *gorm.DB) *requestRepository {
	return &requestRepository{db: db}
}

// Create 创建请求
func (r *requestRepository) Create(req *model.HelpRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return internal.WrapDBError(err, "创建请求")
	}
	return nil
}

// FindByID 按主键查找请求
func (r *requestRepository) FindByID(id uint) (*model.HelpRequest, error) {
	var req model.HelpRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, internal.WrapDBErrorf(err, "查询请求 id=%d", id)
	}
	return &req, nil
}

// List 按条件查询请求，按创建时间倒序
func (r *requestRepository) List(f model.RequestFilter) ([]model.HelpRequest, error) {
	q := r.db.Model(&model.HelpRequest{})
	if f.OwnerID != 0 {
		q = q.Where("user_id = ?", f.OwnerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Region != "" {
		q = q.Where("region = ?", f.Region)
	}
	if f.Topic != "" {
		q = q.Where("topic = ?", f.Topic)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.HelpType != "" {
		q = q.Where("help_type = ?", f.HelpType)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var list []model.HelpRequest
	if err := q.Order("created_at DESC").Order("id DESC").Find(&list).Error; err != nil {
		return nil, internal.WrapDBError(err, "查询请求列表")
	}
	return list, nil
}

// ConditionalUpdate 仅当当前状态为 expectedStatus 时更新
// 返回实际影响的行数，0 表示状态已被其他请求改变
func (r *requestRepository) ConditionalUpdate(id uint, expectedStatus string, fields map[string]any) (int64, error) {
	res := r.db.Model(&model.HelpRequest{}).
		Where("id = ? AND status = ?", id, expectedStatus).
		Updates(fields)
	if res.Error != nil {
		return 0, internal.WrapDBErrorf(res.Error, "条件更新请求 id=%d status=%s", id, expectedStatus)
	}
	return res.RowsAffected, nil
}

// UpdateFields 无条件更新请求字段
func (r *requestRepository) UpdateFields(id uint, fields map[string]any) error {
	if err := r.db.Model(&model.HelpRequest{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return internal.WrapDBErrorf(err, "更新请求 id=%d", id)
	}
	return nil
}

// DeleteByUser 物理删除用户发布的所有请求
func (r *requestRepository) DeleteByUser(userID uint) error {
	if err := r.db.Unscoped().Where("user_id = ?", userID).Delete(&model.HelpRequest{}).Error; err != nil {
		return internal.WrapDBErrorf(err, "删除用户请求 user_id=%d", userID)
	}
	return nil
}

// Count 请求总数
func (r *requestRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&model.HelpRequest{}).Count(&n).Error; err != nil {
		return 0, internal.WrapDBError(err, "统计请求数")
	}
	return n, nil
}

// CountByRegion 按地区统计请求数，数量多的在前
func (r *requestRepository) CountByRegion() ([]model.RegionCount, error) {
	var rows []model.RegionCount
	err := r.db.Model(&model.HelpRequest{}).
		Select("region, COUNT(*) AS count").
		Group("region").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, internal.WrapDBError(err, "按地区统计请求")
	}
	return rows, nil
}

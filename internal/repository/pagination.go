package repository

import "gorm.io/gorm"

// applyPagination 应用分页参数，统一处理非法页码与偏移量。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// applyWorkspace 按工作区范围过滤指定列
func applyWorkspace(query *gorm.DB, column string, filter WorkspaceFilter) *gorm.DB {
	if query == nil || filter.Unrestricted {
		return query
	}
	if len(filter.CreatorIDs) == 0 {
		return query.Where("1 = 0")
	}
	return query.Where(column+" IN ?", filter.CreatorIDs)
}

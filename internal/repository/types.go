package repository

// WorkspaceFilter 工作区可见范围（按创建人/所属人过滤）
// Unrestricted 为 true 时不过滤；否则仅返回 CreatorIDs 内的数据，空列表即不可见。
type WorkspaceFilter struct {
	Unrestricted bool
	CreatorIDs   []uint
}

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Workspace  WorkspaceFilter
	ProductIDs []uint
	Search     string
}

// FinanceOrderFilter 查询已签收订单财务流水的过滤条件
type FinanceOrderFilter struct {
	Page      int
	PageSize  int
	Workspace WorkspaceFilter
	IsPaid    *bool
}

// AddStockParams 入库参数
type AddStockParams struct {
	ProductID uint
	Country   string
	Quantity  int
	Note      string
	AddedBy   uint
}

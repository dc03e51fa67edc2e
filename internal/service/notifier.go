package service

// ChangeNotifier 数据变更通知
// 写操作成功后调用，由看板合并刷新；实现必须非阻塞
type ChangeNotifier interface {
	NotifyChange()
}

// NopNotifier 不做任何事的通知器
type NopNotifier struct{}

// NotifyChange 实现 ChangeNotifier
func (NopNotifier) NotifyChange() {}

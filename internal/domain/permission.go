package domain

// Operation names a gated notification-engine entry point.
type Operation string

const (
	OpCreateNotification  Operation = "notification.create"
	OpSendBulk            Operation = "notification.send_bulk"
	OpListAll             Operation = "notification.list_all"
	OpViewStats           Operation = "notification.stats"
	OpViewOwn             Operation = "notification.view_own"
	OpInteract            Operation = "notification.interact"
	OpDelete              Operation = "notification.delete"
	OpRetryFailed         Operation = "notification.retry_failed"
	OpProcessScheduled    Operation = "notification.process_scheduled"
	OpCleanExpired        Operation = "notification.clean_expired"
	OpManageSubscriptions Operation = "push_subscription.manage"
	OpViewAudit           Operation = "audit.view"
)

var (
	staffRoles = []UserRole{RoleAdmin, RoleCaseWorker, RoleFinanceManager}
	allRoles   = []UserRole{RoleAdmin, RoleCaseWorker, RoleFinanceManager, RoleUser}
	adminOnly  = []UserRole{RoleAdmin}
)

var permissions = map[Operation][]UserRole{
	OpCreateNotification:  staffRoles,
	OpSendBulk:            {RoleAdmin, RoleCaseWorker},
	OpListAll:             staffRoles,
	OpViewStats:           staffRoles,
	OpViewOwn:             allRoles,
	OpInteract:            allRoles,
	OpDelete:              adminOnly,
	OpRetryFailed:         adminOnly,
	OpProcessScheduled:    adminOnly,
	OpCleanExpired:        adminOnly,
	OpManageSubscriptions: allRoles,
	OpViewAudit:           adminOnly,
}

func Can(role UserRole, op Operation) bool {
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize is the single role gate for the notification engine.
func Authorize(caller Caller, op Operation) error {
	if !Can(caller.Role, op) {
		return Unauthorized("Role %q is not allowed to perform %s", caller.Role, op)
	}
	return nil
}

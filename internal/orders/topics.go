package orders

const (
	TopicOrderCreated = "coffee.order.created"
	TopicOrderUpdated = "coffee.order.updated"
	TopicOrderDeleted = "coffee.order.deleted"
)

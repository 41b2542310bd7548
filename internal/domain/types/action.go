package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitReconnected       = "rabbitmq_reconnected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
	ActionExternalServiceFailed     = "external_service_failed"
)

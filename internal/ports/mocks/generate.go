//go:generate mockgen -source=../notification_client.go -destination=./mock_notification_client.go -package=mocks
//go:generate mockgen -source=../token_source.go        -destination=./mock_token_source.go        -package=mocks
//go:generate mockgen -source=../validator.go           -destination=./mock_validator.go           -package=mocks
//go:generate mockgen -source=../logger.go              -destination=./mock_logger.go              -package=mocks
//go:generate mockgen -source=../message_consumer.go    -destination=./mock_message_consumer.go    -package=mocks
//go:generate mockgen -source=../order_service.go       -destination=./mock_order_service.go       -package=mocks

package mocks

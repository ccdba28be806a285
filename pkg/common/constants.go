package common

const (
	RedisStreamToolInvocation = "tool.invocation"

	RedisStreamGroup    = "runner-group"
	RedisStreamConsumer = "runner-consumer"
)

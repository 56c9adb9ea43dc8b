package config

type WorkerKeyStruct struct {
	MonitorEventsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	MonitorEventsQueue: "monitor_events_queue",
}

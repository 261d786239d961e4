// Package seed provides the default template library inserted on first run.
package seed

import (
	"context"
	"fmt"

	"github.com/lepicodon/yamalert/pkg/store"
)

// Apply inserts the default templates when the store is empty.
// It returns the number of templates inserted (zero when the store already
// holds templates).
func Apply(ctx context.Context, storage store.Storage) (int, error) {
	existing, err := storage.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing templates: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	templates := Templates()
	for _, t := range templates {
		if err := storage.Create(ctx, t); err != nil {
			return 0, fmt.Errorf("seeding template %q: %w", t.Name, err)
		}
	}
	return len(templates), nil
}

// Templates returns the default template library. Each call returns fresh
// values; callers may mutate the result.
func Templates() []*store.Template {
	return []*store.Template{
		{
			Name:        "Telegraf CPU High",
			Type:        "rule",
			JobCategory: "Telegraf",
			SensorType:  "CPU",
			Description: "Alert when CPU usage stays above 80% for 5 min.",
			Content: `groups:
  - name: telegraf_cpu_high
    rules:
      - alert: CPUHigh
        expr: 100 - (avg by(instance) (rate(node_cpu_seconds_total{mode="idle"}[5m])) * 100) > 80
        for: 5m
        labels:
          severity: warning
        annotations:
          summary: High CPU usage on {{ $labels.instance }}
          description: CPU > 80% for > 5 min.
`,
		},
		{
			Name:        "Telegraf Memory High",
			Type:        "rule",
			JobCategory: "Telegraf",
			SensorType:  "Memory",
			Description: "Memory usage > 85% for 5 min.",
			Content: `groups:
  - name: telegraf_mem_high
    rules:
      - alert: MemoryHigh
        expr: (1 - (node_memory_MemAvailable_bytes / node_memory_MemTotal_bytes)) * 100 > 85
        for: 5m
        labels:
          severity: warning
        annotations:
          summary: High memory usage on {{ $labels.instance }}
          description: Memory > 85% for > 5 min.
`,
		},
		{
			Name:        "Telegraf Disk Space Low",
			Type:        "rule",
			JobCategory: "Telegraf",
			SensorType:  "Disk",
			Description: "Disk usage > 90% for 5 min.",
			Content: `groups:
  - name: telegraf_disk_low
    rules:
      - alert: DiskSpaceLow
        expr: (1 - (node_filesystem_avail_bytes / node_filesystem_size_bytes)) * 100 > 90
        for: 5m
        labels:
          severity: warning
        annotations:
          summary: Low free space on {{ $labels.instance }}
          description: Usage > 90% on {{ $labels.mountpoint }}.
`,
		},
		{
			Name:        "CPU Usage Recording (5m rate)",
			Type:        "rule",
			JobCategory: "Telegraf",
			SensorType:  "CPU",
			Description: "Recording rule for CPU usage percentage with 5-minute rate.",
			Content: `groups:
  - name: cpu_recording_5m
    rules:
      - record: instance:cpu_usage:rate5m
        expr: 100 - (avg by(instance) (rate(node_cpu_seconds_total{mode="idle"}[5m])) * 100)
`,
		},
		{
			Name:        "Memory Usage Recording",
			Type:        "rule",
			JobCategory: "Telegraf",
			SensorType:  "Memory",
			Description: "Recording rule for memory usage percentage.",
			Content: `groups:
  - name: memory_recording
    rules:
      - record: instance:memory_usage:percent
        expr: (1 - (node_memory_MemAvailable_bytes / node_memory_MemTotal_bytes)) * 100
`,
		},
		{
			Name:        "Disk Usage Recording",
			Type:        "rule",
			JobCategory: "Telegraf",
			SensorType:  "Disk",
			Description: "Recording rule for disk usage percentage by mountpoint.",
			Content: `groups:
  - name: disk_recording
    rules:
      - record: instance:disk_usage:percent
        expr: (1 - (node_filesystem_avail_bytes / node_filesystem_size_bytes)) * 100
`,
		},
		{
			Name:        "Network Rate Recording",
			Type:        "rule",
			JobCategory: "Telegraf",
			SensorType:  "Network",
			Description: "Recording rule for network traffic rates.",
			Content: `groups:
  - name: network_recording
    rules:
      - record: instance:network:bytes:rate5m
        expr: rate(node_network_receive_bytes_total[5m]) + rate(node_network_transmit_bytes_total[5m])
`,
		},
		{
			Name:        "Ping Latency High",
			Type:        "rule",
			JobCategory: "Ping",
			SensorType:  "Latency",
			Description: "Average ping latency > 200 ms for 5 min.",
			Content: `groups:
  - name: ping_latency_high
    rules:
      - alert: PingLatencyHigh
        expr: avg_over_time(ping_duration_seconds[5m]) > 0.2
        for: 5m
        labels:
          severity: warning
        annotations:
          summary: High ping latency to {{ $labels.instance }}
          description: Average ping > 200 ms for > 5 min.
`,
		},
		{
			Name:        "Ping Packet Loss",
			Type:        "rule",
			JobCategory: "Ping",
			SensorType:  "Loss",
			Description: "Packet loss > 2% over 5 min.",
			Content: `groups:
  - name: ping_packet_loss
    rules:
      - alert: PingPacketLoss
        expr: rate(ping_packets_received_total[5m]) / rate(ping_packets_sent_total[5m]) < 0.98
        for: 5m
        labels:
          severity: warning
        annotations:
          summary: Packet loss to {{ $labels.instance }}
          description: Loss > 2% for > 5 min.
`,
		},
		{
			Name:        "SSL Cert Expiry (15 days)",
			Type:        "rule",
			JobCategory: "SSL",
			SensorType:  "Certificate",
			Description: "Certificate expires within 15 days.",
			Content: `groups:
  - name: ssl_cert_expiry_15d
    rules:
      - alert: SSLCertExpiringSoon
        expr: probe_ssl_earliest_cert_expiry - time() < 15 * 24 * 3600
        for: 1h
        labels:
          severity: warning
        annotations:
          summary: SSL cert for {{ $labels.instance }} expires in < 15 days
`,
		},
		{
			Name:        "SSL Cert Expiry (30 days)",
			Type:        "rule",
			JobCategory: "SSL",
			SensorType:  "Certificate",
			Description: "Certificate expires within 30 days.",
			Content: `groups:
  - name: ssl_cert_expiry_30d
    rules:
      - alert: SSLCertExpiring
        expr: probe_ssl_earliest_cert_expiry - time() < 30 * 24 * 3600
        for: 1h
        labels:
          severity: info
        annotations:
          summary: SSL cert for {{ $labels.instance }} expires in < 30 days
`,
		},
		{
			Name:        "VMware VM CPU High",
			Type:        "rule",
			JobCategory: "VMware",
			SensorType:  "CPU",
			Description: "VMware VM CPU usage > 80% for 5 min.",
			Content: `groups:
  - name: vmware_vm_cpu_high
    rules:
      - alert: VMwareVMCPUHigh
        expr: vmware_vm_cpu_usage_percent > 80
        for: 5m
        labels:
          severity: warning
        annotations:
          summary: High CPU usage on VM {{ $labels.vm }} ({{ $labels.instance }})
`,
		},
		{
			Name:        "VMware Datastore Usage High",
			Type:        "rule",
			JobCategory: "VMware",
			SensorType:  "Storage",
			Description: "Datastore usage > 85% for 5 min.",
			Content: `groups:
  - name: vmware_datastore_usage_high
    rules:
      - alert: VMwareDatastoreUsageHigh
        expr: vmware_datastore_capacity_percent > 85
        for: 5m
        labels:
          severity: warning
        annotations:
          summary: High usage on datastore {{ $labels.datastore }} ({{ $labels.instance }})
`,
		},
		{
			Name:        "Kubernetes API Server Error Rate",
			Type:        "rule",
			JobCategory: "Kubernetes",
			SensorType:  "API",
			Description: "APIServer 5xx error rate > 1% for 5 min.",
			Content: `groups:
  - name: k8s_api_error_rate
    rules:
      - alert: K8SAPIServerErrorRate
        expr: rate(apiserver_request_total{code=~"5.."}[5m]) / rate(apiserver_request_total[5m]) > 0.01
        for: 5m
        labels:
          severity: warning
        annotations:
          summary: API server high 5xx rate on cluster {{ $labels.cluster }}
`,
		},
		{
			Name:        "Kubernetes Node Not Ready",
			Type:        "rule",
			JobCategory: "Kubernetes",
			SensorType:  "Node",
			Description: "Node becomes NotReady for > 5 min.",
			Content: `groups:
  - name: k8s_node_not_ready
    rules:
      - alert: K8SNodeNotReady
        expr: kube_node_status_condition{condition="Ready",status="true"} == 0
        for: 5m
        labels:
          severity: critical
        annotations:
          summary: Node {{ $labels.node }} is not ready
`,
		},
		{
			Name:        "Kubernetes Pod CPU Usage Recording",
			Type:        "rule",
			JobCategory: "Kubernetes",
			SensorType:  "CPU",
			Description: "Recording rule for pod CPU usage.",
			Content: `groups:
  - name: k8s_pod_cpu_recording
    rules:
      - record: namespace:pod_cpu_usage:rate5m
        expr: sum(rate(container_cpu_usage_seconds_total{container!=""}[5m])) by (namespace, pod)
`,
		},
		{
			Name:        "MySQL Replication Lag",
			Type:        "rule",
			JobCategory: "MySQL",
			SensorType:  "Replication",
			Description: "Slave lag > 30 s for 5 min.",
			Content: `groups:
  - name: mysql_repl_lag
    rules:
      - alert: MySQLReplicationLag
        expr: mysql_slave_lag_seconds > 30
        for: 5m
        labels:
          severity: warning
        annotations:
          summary: MySQL replication lag on {{ $labels.instance }}
`,
		},
		{
			Name:        "Redis Memory High",
			Type:        "rule",
			JobCategory: "Redis",
			SensorType:  "Memory",
			Description: "Redis memory usage > 90% for 5 min.",
			Content: `groups:
  - name: redis_mem_high
    rules:
      - alert: RedisMemoryHigh
        expr: redis_memory_used_bytes / redis_memory_max_bytes > 0.9
        for: 5m
        labels:
          severity: warning
        annotations:
          summary: Redis memory high on {{ $labels.instance }}
`,
		},
		{
			Name:        "Nginx 5xx Error Rate",
			Type:        "rule",
			JobCategory: "Nginx",
			SensorType:  "HTTP",
			Description: "Nginx 5xx error rate > 1% for 5 min.",
			Content: `groups:
  - name: nginx_5xx_rate
    rules:
      - alert: Nginx5xxErrorRate
        expr: rate(nginx_http_requests_total{status=~"5.."}[5m]) / rate(nginx_http_requests_total[5m]) > 0.01
        for: 5m
        labels:
          severity: warning
        annotations:
          summary: High 5xx error rate on {{ $labels.instance }}
`,
		},
		{
			Name:        "Complete CPU Monitoring",
			Type:        "rule",
			JobCategory: "Telegraf",
			SensorType:  "CPU",
			Description: "Group with recording rules and alerts for comprehensive CPU monitoring.",
			Content: `groups:
  - name: complete_cpu_monitoring
    rules:
      - record: instance:cpu_usage:rate5m
        expr: 100 - (avg by(instance) (rate(node_cpu_seconds_total{mode="idle"}[5m])) * 100)
      - record: instance:cpu_usage:rate1m
        expr: 100 - (avg by(instance) (rate(node_cpu_seconds_total{mode="idle"}[1m])) * 100)
      - alert: CPUHigh
        expr: instance:cpu_usage:rate5m > 80
        for: 5m
        labels:
          severity: warning
        annotations:
          summary: High CPU usage on {{ $labels.instance }}
          description: CPU usage is above 80% for more than 5 minutes.
      - alert: CPUCritical
        expr: instance:cpu_usage:rate5m > 95
        for: 2m
        labels:
          severity: critical
        annotations:
          summary: Critical CPU usage on {{ $labels.instance }}
          description: CPU usage is above 95% for more than 2 minutes.
`,
		},
		{
			Name:        "Default Alertmanager Route",
			Type:        "alertmanager",
			JobCategory: "General",
			SensorType:  "N/A",
			Description: "Default route grouping by alertname, cluster, service.",
			Content: `global:
  smtp_smarthost: localhost:587
  smtp_from: alerts@example.com
route:
  group_by:
    - alertname
    - cluster
    - service
  group_wait: 10s
  group_interval: 10s
  repeat_interval: 1h
  receiver: default
receivers:
  - name: default
  - name: ops-team-email
    email_configs:
      - to: ops@example.com
inhibit_rules:
  - source_match:
      severity: critical
    target_match:
      severity: warning
    equal:
      - alertname
      - instance
`,
		},
		{
			Name:        "Email + Webhook Route",
			Type:        "alertmanager",
			JobCategory: "General",
			SensorType:  "N/A",
			Description: "Send critical to webhook, warnings/info to email.",
			Content: `route:
  receiver: default
  routes:
    - matchers:
        - severity=~'critical|error'
      receiver: webhook
    - matchers:
        - severity=~'warning|info'
      receiver: email
receivers:
  - name: webhook
    webhook_configs:
      - url: https://your-webhook-endpoint.com/alert
        title: 'Alert: {{ .GroupLabels.alertname }}'
        text: "{{ range .Alerts }}{{ .Annotations.summary }}\n{{ end }}"
  - name: email
    email_configs:
      - to: ops@example.com
  - name: default
`,
		},
		{
			Name:        "All Alerts to Webhook",
			Type:        "alertmanager",
			JobCategory: "General",
			SensorType:  "N/A",
			Description: "Send all alerts to a webhook endpoint.",
			Content: `route:
  receiver: webhook
  group_by:
    - alertname
    - instance
  group_wait: 10s
  group_interval: 10s
  repeat_interval: 1h
receivers:
  - name: webhook
    webhook_configs:
      - url: https://your-webhook-endpoint.com/alert
        send_resolved: true
        title: 'Alert: {{ .GroupLabels.alertname }}'
        text: "{{ range .Alerts }}{{ .Annotations.summary }}\n{{ end }}"
`,
		},
	}
}

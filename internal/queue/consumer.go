package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/transportagency/bus-ticket-sales/internal/model"
	"github.com/transportagency/bus-ticket-sales/internal/pdf"
)

// StartReceiptConsumer connects to RabbitMQ, declares the sale.completed
// queue (durable), and starts consuming messages. Each event is rendered
// into a PDF receipt under receiptDir. The function runs a reconnect loop
// and keeps running across broker restarts; processing errors are logged
// and the offending message is rejected so the server continues operating.
func StartReceiptConsumer(receiptDir string) {
	if receiptDir == "" {
		receiptDir = "receipts"
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("receipt-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, receiptDir); err != nil {
			log.Printf("receipt-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, receiptDir string) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("receipt-consumer: set QoS failed: %v", err)
	}

	_, err = ch.QueueDeclare(saleQueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(saleQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, receiptDir); err != nil {
			log.Printf("receipt-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, receiptDir string) error {
	var ev SaleCompletedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	detail, err := detailFromEvent(ev)
	if err != nil {
		return err
	}

	doc, filename, err := pdf.BuildReceipt(detail)
	if err != nil {
		return fmt.Errorf("render receipt %s: %w", ev.ReceiptNumber, err)
	}
	if err := os.MkdirAll(receiptDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", receiptDir, err)
	}
	fpath := filepath.Join(receiptDir, filename)
	if err := os.WriteFile(fpath, doc, 0o644); err != nil {
		return fmt.Errorf("write receipt file: %w", err)
	}
	log.Printf("receipt-consumer: wrote %s for sale %d", fpath, ev.SaleID)
	return nil
}

func detailFromEvent(ev SaleCompletedEvent) (model.SaleDetail, error) {
	departure, err := time.Parse(time.RFC3339, ev.DepartureTime)
	if err != nil {
		return model.SaleDetail{}, fmt.Errorf("parse departure_time: %w", err)
	}
	arrival, err := time.Parse(time.RFC3339, ev.ArrivalTime)
	if err != nil {
		return model.SaleDetail{}, fmt.Errorf("parse arrival_time: %w", err)
	}
	saleDate, err := time.Parse(time.RFC3339, ev.SaleDate)
	if err != nil {
		return model.SaleDetail{}, fmt.Errorf("parse sale_date: %w", err)
	}

	d := model.SaleDetail{
		Sale: model.Sale{
			ID:            ev.SaleID,
			Amount:        ev.Amount,
			SaleDate:      saleDate,
			ReceiptNumber: ev.ReceiptNumber,
			Status:        model.SaleCompleted,
		},
		CustomerName:   ev.CustomerName,
		DocumentNumber: ev.DocumentNumber,
		SeatNumber:     ev.SeatNumber,
		TripID:         ev.TripID,
		DepartureTime:  departure,
		ArrivalTime:    arrival,
		Origin:         ev.Origin,
		Destination:    ev.Destination,
		BusModel:       ev.BusModel,
		PlateNumber:    ev.PlateNumber,
	}
	if ev.Phone != "" {
		d.Phone = &ev.Phone
	}
	if ev.Email != "" {
		d.Email = &ev.Email
	}
	return d, nil
}

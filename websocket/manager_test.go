package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDeliversToAllClients(t *testing.T) {
	manager := NewManager(nil)

	first := &Client{ID: "dash-1", Send: make(chan []byte, 1)}
	second := &Client{ID: "dash-2", Send: make(chan []byte, 1)}
	manager.Clients[first.ID] = first
	manager.Clients[second.ID] = second

	message := []byte(`{"type":"etl_run_completed"}`)
	manager.broadcast(message)

	require.Len(t, manager.Clients, 2)
	assert.Equal(t, message, <-first.Send)
	assert.Equal(t, message, <-second.Send)
}

func TestBroadcastDropsClientWithFullQueue(t *testing.T) {
	manager := NewManager(nil)

	// Очередь клиента заполнена, новое сообщение не помещается
	stuck := &Client{ID: "dash-stuck", Send: make(chan []byte, 1)}
	stuck.Send <- []byte("старое сообщение")
	manager.Clients[stuck.ID] = stuck

	alive := &Client{ID: "dash-alive", Send: make(chan []byte, 1)}
	manager.Clients[alive.ID] = alive

	message := []byte(`{"type":"etl_run_completed"}`)
	manager.broadcast(message)

	// Переполненный клиент удален, его канал закрыт
	assert.NotContains(t, manager.Clients, stuck.ID)
	assert.Contains(t, manager.Clients, alive.ID)
	assert.Equal(t, message, <-alive.Send)

	<-stuck.Send
	_, open := <-stuck.Send
	assert.False(t, open)
}

func TestRegisterAndUnregisterThroughRunLoop(t *testing.T) {
	manager := NewManager(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)

		client := &Client{ID: "dash-1", Send: make(chan []byte, 1)}
		manager.Register <- client

		manager.Broadcast <- []byte("привет")
		require.Equal(t, []byte("привет"), <-client.Send)

		manager.Unregister <- client
		// Канал закрывается циклом Run при отключении
		_, open := <-client.Send
		assert.False(t, open)
	}()

	// Карту Clients мутирует только цикл Run, тест общается с ним
	// исключительно через каналы
	go manager.Run()
	<-done
}

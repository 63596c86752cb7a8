package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aidar/leave-tracker/internal/app"
	"github.com/aidar/leave-tracker/internal/config"
)

func main() {
	// Загружаем конфигурацию трекера из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Не удалось загрузить конфигурацию трекера отпусков: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Не удалось создать трекер отпусков: %v", err)
	}

	// Открываем хранилище и загружаем участников; поврежденные данные останавливают запуск
	if err := application.Initialize(context.Background()); err != nil {
		log.Fatalf("Не удалось загрузить данные об отпусках (%s): %v", cfg.Storage.Driver, err)
	}

	// Ctrl+C или SIGTERM завершают работу
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	fmt.Printf("Трекер отпусков слушает %s:%s (хранилище: %s)\n", cfg.Server.Host, cfg.Server.Port, cfg.Storage.Driver)
	if !cfg.Tracker.Autosave {
		fmt.Println("Автосохранение выключено: изменения записываются через POST /save")
	}

	select {
	case <-ctx.Done():
		fmt.Println("\nОстановка трекера отпусков...")
	case err := <-serverErr:
		if err != nil {
			log.Printf("Ошибка HTTP сервера: %v", err)
		}
	}

	// Даем текущим запросам завершиться, затем закрываем хранилище
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = application.Shutdown(shutdownCtx)
	cancel()

	if err != nil {
		log.Printf("Не удалось корректно остановить трекер отпусков: %v", err)
		os.Exit(1)
	}

	fmt.Println("Трекер отпусков остановлен")
}

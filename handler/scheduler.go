package handler

import (
	"log"
	"time"

	"comanda_pos/constants"
	"comanda_pos/database"
	"comanda_pos/model"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
)

var (
	comandaScheduler gocron.Scheduler
	boardScheduler   *cron.Cron
)

// CancelarComandasAbandonadas cancela las comandas que quedaron ABIERTAS más
// de 12 horas (mesas abandonadas al cierre del local). Cada cancelación pasa
// por el servicio, así el cambio de estado es la misma transacción de siempre.
func CancelarComandasAbandonadas() {
	limite := time.Now().Add(-12 * time.Hour)

	var abiertas []model.Comanda
	if err := database.DB.
		Where("estado = ? AND created_at < ?", constants.COMANDA_ABIERTA, limite).
		Find(&abiertas).Error; err != nil {
		log.Printf("Error buscando comandas abandonadas: %v", err)
		return
	}

	svc := comandaService()
	for _, comanda := range abiertas {
		if _, err := svc.Cancelar(comanda.ID); err != nil {
			log.Printf("Error cancelando comanda %s: %v", comanda.PublicCode, err)
			continue
		}
		PublishMesa(comanda.MesaID)
		log.Printf("Comanda %s cancelada por abandono", comanda.PublicCode)
	}
}

func StartComandaScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}

	comandaScheduler = s

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(4, 0, 0),
			),
		),
		gocron.NewTask(CancelarComandasAbandonadas),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("Scheduler de comandas abandonadas iniciado (04:00)")
}

func StopComandaScheduler() {
	if comandaScheduler != nil {
		_ = comandaScheduler.Shutdown()
	}
}

// StartBoardScheduler republica cada minuto el tablero de las mesas con
// comanda abierta, por si alguna publicación puntual se perdió.
func StartBoardScheduler() {
	boardScheduler = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := boardScheduler.AddFunc("* * * * *", republishOpenBoards)
	if err != nil {
		log.Printf("Error iniciando scheduler de tableros: %v", err)
		return
	}

	boardScheduler.Start()
	log.Println("Scheduler de tableros de mesa iniciado (cada minuto)")
}

func republishOpenBoards() {
	var abiertas []model.Comanda
	if err := database.DB.
		Where("estado = ?", constants.COMANDA_ABIERTA).
		Find(&abiertas).Error; err != nil {
		log.Printf("Error buscando comandas abiertas: %v", err)
		return
	}

	for _, comanda := range abiertas {
		PublishMesa(comanda.MesaID)
	}
}

func StopBoardScheduler() {
	if boardScheduler != nil {
		boardScheduler.Stop()
	}
}
